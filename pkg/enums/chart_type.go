package enums

import "fmt"

// ChartType names a dashboard chart dataset.
type ChartType string

const (
	ChartTypeProjectsOverTime ChartType = "projects_over_time"
	ChartTypeStatusBreakdown  ChartType = "status_breakdown"
	ChartTypeStepDurations    ChartType = "step_durations"
)

var validChartTypes = []ChartType{
	ChartTypeProjectsOverTime,
	ChartTypeStatusBreakdown,
	ChartTypeStepDurations,
}

// String returns the literal string for the chart type.
func (c ChartType) String() string {
	return string(c)
}

// IsValid reports whether the chart type is known.
func (c ChartType) IsValid() bool {
	for _, candidate := range validChartTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChartType converts raw input into a ChartType.
func ParseChartType(value string) (ChartType, error) {
	for _, candidate := range validChartTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid chart type %q", value)
}
