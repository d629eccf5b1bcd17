package enums

import "fmt"

// StepName identifies one stage of the video processing pipeline.
type StepName string

const (
	StepVideoAnalysis    StepName = "video_analysis"
	StepScriptGeneration StepName = "script_generation"
	StepAudioGeneration  StepName = "audio_generation"
	StepAudioSync        StepName = "audio_sync"
	StepVideoComposition StepName = "video_composition"
	StepCaptionRendering StepName = "caption_rendering"
)

// StepSequence is the canonical pipeline order. Progress percentages are
// computed against its length, so it must list every step exactly once.
var StepSequence = []StepName{
	StepVideoAnalysis,
	StepScriptGeneration,
	StepAudioGeneration,
	StepAudioSync,
	StepVideoComposition,
	StepCaptionRendering,
}

// String returns the literal string for the step name.
func (s StepName) String() string {
	return string(s)
}

// IsValid reports whether the step belongs to the canonical sequence.
func (s StepName) IsValid() bool {
	for _, candidate := range StepSequence {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStepName converts raw input into a StepName.
func ParseStepName(value string) (StepName, error) {
	for _, candidate := range StepSequence {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid step name %q", value)
}
