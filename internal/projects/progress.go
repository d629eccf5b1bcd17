package projects

import (
	"math"

	"github.com/reelsmith/dashboard-go/pkg/enums"
	"github.com/reelsmith/dashboard-go/pkg/platform"
)

// Percent reports pipeline completion as a whole percentage. The denominator
// is always the full pipeline length, so a project with missing step records
// reads as less complete rather than more.
func Percent(steps []platform.ProcessingStep) int {
	total := len(enums.StepSequence)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, step := range steps {
		if step.Status == enums.StepStatusCompleted {
			completed++
		}
	}
	if completed > total {
		completed = total
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// CurrentStep returns the earliest pipeline step that has not completed, in
// canonical order, and false when every step is done.
func CurrentStep(steps []platform.ProcessingStep) (enums.StepName, bool) {
	byName := make(map[enums.StepName]platform.ProcessingStep, len(steps))
	for _, step := range steps {
		byName[step.StepName] = step
	}
	for _, name := range enums.StepSequence {
		step, ok := byName[name]
		if !ok || step.Status != enums.StepStatusCompleted {
			return name, true
		}
	}
	return "", false
}

// FailedStep returns the first step that failed, in canonical order.
func FailedStep(steps []platform.ProcessingStep) (*platform.ProcessingStep, bool) {
	byName := make(map[enums.StepName]platform.ProcessingStep, len(steps))
	for _, step := range steps {
		byName[step.StepName] = step
	}
	for _, name := range enums.StepSequence {
		if step, ok := byName[name]; ok && step.Status == enums.StepStatusFailed {
			return &step, true
		}
	}
	return nil, false
}
