package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend holding evaluation data.
	DatabaseBackend string

	// MemberRole represents the role of a project team member.
	MemberRole string

	// RatingStatus represents the outcome of one rating evaluation.
	RatingStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// Team member roles.
const (
	RoleDeveloper MemberRole = "developer"
	RoleManager   MemberRole = "manager"
)

// Rating outcomes. Pending ratings wait for data that has not been submitted.
const (
	StatusOK      RatingStatus = "ok"
	StatusPending RatingStatus = "pending"
	StatusNA      RatingStatus = "n/a"
	StatusError   RatingStatus = "error"
)

// Enum types known to the ticket value formula.
const (
	EnumType     = "type"
	EnumPriority = "priority"
	EnumSeverity = "severity"
)

// Ticket fields exposed to filter expressions.
const (
	FieldStatus     = "status"
	FieldResolution = "resolution"
	FieldOwner      = "owner"
	FieldReporter   = "reporter"
	FieldMilestone  = "milestone"
	FieldType       = "type"
	FieldPriority   = "priority"
	FieldSeverity   = "severity"

	// ExtraTicketValue is the computed value of a ticket.
	ExtraTicketValue = "ticket_value"
	// CustomModifier is the ticket custom field added to the value formula.
	CustomModifier = "value_modifier"
)

// Milestone properties that can be requested from a milestone source.
const (
	PropWeight    = "weight"
	PropRating    = "rating"
	PropApproved  = "approved"
	PropCompleted = "completed"
)

// Configuration sections of the per-syllabus store.
const (
	SectionConstants  = "evaluation-constants"
	SectionEvaluation = "evaluation"
	OptionPackage     = "package"
	DefaultPackage    = "default"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// ValidMilestoneProps lists the properties a milestone source can include.
var ValidMilestoneProps = map[string]struct{}{
	PropWeight:    {},
	PropRating:    {},
	PropApproved:  {},
	PropCompleted: {},
}
