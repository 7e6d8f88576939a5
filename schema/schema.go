// Package schema has the shared types, constants and errors of the evaluation engine.
package schema

// Milestone is one project milestone with the properties used in grading.
type Milestone struct {
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Rating    float64 `json:"rating"`    // expert rating, 0-100
	Approved  bool    `json:"approved"`  // rating approved by a manager
	Completed bool    `json:"completed"` // milestone closed
}

// PeerScore is one peer evaluation result given by Author to Target.
type PeerScore struct {
	Author string  `json:"author"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// TeamEvalOptions controls how peer evaluation results are collected.
type TeamEvalOptions struct {
	WithUsernames bool // key results by evaluator
	AllCompleted  bool // every member must have submitted
	OnlyApproved  bool // only evaluations approved by a manager
}

// EarnedValues holds peer evaluation results.
// A user scoped query fills Values (or ByAuthor when usernames are requested).
// A project scoped query fills ByTarget.
type EarnedValues struct {
	Values   []float64            `json:"values,omitempty"`
	ByAuthor map[string]float64   `json:"by_author,omitempty"`
	ByTarget map[string][]float64 `json:"by_target,omitempty"`
}

// TicketRow is one row returned by a ticket query.
type TicketRow map[string]any

// Member is a project team member.
type Member struct {
	Username string     `json:"username"`
	Role     MemberRole `json:"role"`
}

// Rating is one evaluated rating of a report.
type Rating struct {
	ProjectID int64        `json:"project_id"`
	Username  string       `json:"username"`
	Alias     string       `json:"alias"`
	Label     string       `json:"label"`
	Value     float64      `json:"value"`
	Status    RatingStatus `json:"status"`
	Message   string       `json:"message,omitempty"`
}
