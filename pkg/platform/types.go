package platform

import (
	"encoding/json"
	"time"

	"github.com/reelsmith/dashboard-go/pkg/enums"
)

// User is the backend's account record. Identity is server-assigned; the
// client only mutates it through update calls.
type User struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	IsActive bool   `json:"is_active"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// StepProgress is the per-step slot of a project's progress map.
type StepProgress struct {
	Status  enums.StepStatus `json:"status"`
	Message string           `json:"message,omitempty"`
}

type VideoProject struct {
	ID              string                          `json:"id"`
	UserID          string                          `json:"user_id"`
	Status          enums.ProjectStatus             `json:"status"`
	UserContext     string                          `json:"user_context,omitempty"`
	Voice           string                          `json:"voice"`
	ScriptStyle     string                          `json:"script_style"`
	AnimationStyle  string                          `json:"animation_style"`
	CaptionPosition string                          `json:"caption_position"`
	MinWords        int                             `json:"min_words"`
	MaxWords        int                             `json:"max_words"`
	CreatedAt       time.Time                       `json:"created_at"`
	UpdatedAt       time.Time                       `json:"updated_at"`
	ErrorMessage    string                          `json:"error_message,omitempty"`
	Progress        map[enums.StepName]StepProgress `json:"progress,omitempty"`
	Results         map[string]string               `json:"results,omitempty"`
}

type ProcessingStep struct {
	ID             string           `json:"id"`
	VideoProjectID string           `json:"video_project_id"`
	StepName       enums.StepName   `json:"step_name"`
	Status         enums.StepStatus `json:"status"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	ErrorMessage   string           `json:"error_message,omitempty"`
	StepData       json.RawMessage  `json:"step_data,omitempty"`
}

// AuditRecord is an immutable log of one backend service exchange.
type AuditRecord struct {
	ID             string          `json:"id"`
	VideoProjectID string          `json:"video_project_id"`
	StepName       enums.StepName  `json:"step_name"`
	Service        string          `json:"service"`
	RequestData    json.RawMessage `json:"request_data,omitempty"`
	ResponseData   json.RawMessage `json:"response_data,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type RetryResponse struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
}

type UpdateUserInput struct {
	FullName *string `json:"full_name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type UpdateProjectInput struct {
	UserContext     *string              `json:"user_context,omitempty"`
	Voice           *string              `json:"voice,omitempty"`
	ScriptStyle     *string              `json:"script_style,omitempty"`
	AnimationStyle  *string              `json:"animation_style,omitempty"`
	CaptionPosition *string              `json:"caption_position,omitempty"`
	MinWords        *int                 `json:"min_words,omitempty"`
	MaxWords        *int                 `json:"max_words,omitempty"`
	Status          *enums.ProjectStatus `json:"status,omitempty"`
}

type UpdateStepInput struct {
	Status       *enums.StepStatus `json:"status,omitempty"`
	ErrorMessage *string           `json:"error_message,omitempty"`
	StepData     json.RawMessage   `json:"step_data,omitempty"`
}

type DashboardOverview struct {
	TotalProjects  int            `json:"total_projects"`
	StatusCounts   map[string]int `json:"status_counts"`
	RecentProjects []VideoProject `json:"recent_projects"`
}

type DashboardStats struct {
	ProjectsToday     int     `json:"projects_today"`
	ProjectsThisWeek  int     `json:"projects_this_week"`
	AverageDurationMS float64 `json:"average_duration_ms"`
	FailureRate       float64 `json:"failure_rate"`
}

type ChartData struct {
	Type   enums.ChartType `json:"type"`
	Labels []string        `json:"labels"`
	Values []float64       `json:"values"`
}
