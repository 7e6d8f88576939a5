package schema

import "time"

// VariableInfo describes a model variable for listings.
type VariableInfo struct {
	Alias       string `json:"alias"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Scale       string `json:"scale"`
	Areas       string `json:"areas"`
	Clusters    string `json:"clusters"`
}

// ConstantInfo describes a model constant and its effective value.
type ConstantInfo struct {
	Alias       string `json:"alias"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Scale       string `json:"scale"`
	Value       any    `json:"value"`
	Default     any    `json:"default"`
}

// VariableValue is the outcome of evaluating one variable over one scope.
type VariableValue struct {
	Alias     string       `json:"alias"`
	Area      string       `json:"area"`
	ProjectID int64        `json:"project_id,omitempty"`
	Username  string       `json:"username,omitempty"`
	GroupID   int64        `json:"group_id,omitempty"`
	Syllabus  int64        `json:"syllabus_id,omitempty"`
	Milestone string       `json:"milestone,omitempty"`
	Value     any          `json:"value"`
	Status    RatingStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
}

// Report holds the headline ratings of every developer of a project.
type Report struct {
	ProjectID  int64         `json:"project_id"`
	SyllabusID int64         `json:"syllabus_id"`
	Model      string        `json:"model"`
	Ratings    []Rating      `json:"ratings"`
	Took       time.Duration `json:"took_ns"`
}
