package schema

import "strings"

// Area is a bit set of evaluation scopes.
type Area uint8

// Supported evaluation areas.
const (
	AreaUser Area = 1 << iota
	AreaProject
	AreaGroup
	AreaSyllabus

	AreaNone Area = 0
	AreaAll       = AreaUser | AreaProject | AreaGroup | AreaSyllabus
)

// Cluster is a bit set of secondary grouping dimensions.
type Cluster uint8

// Supported clusters. ClusterNone means "no cluster key required".
const (
	ClusterNone Cluster = 1 << iota
	ClusterMilestone

	ClusterAll = ClusterNone | ClusterMilestone
)

var areaNames = []struct {
	flag Area
	name string
}{
	{AreaUser, "user"},
	{AreaProject, "project"},
	{AreaGroup, "group"},
	{AreaSyllabus, "syllabus"},
}

var clusterNames = []struct {
	flag Cluster
	name string
}{
	{ClusterNone, "none"},
	{ClusterMilestone, "milestone"},
}

// Has reports whether every bit of other is present in a.
func (a Area) Has(other Area) bool { return other != 0 && a&other == other }

// Valid reports whether a only uses known bits and is not empty.
func (a Area) Valid() bool { return a != 0 && a&^AreaAll == 0 }

// String renders the set as a comma separated list.
func (a Area) String() string {
	var parts []string
	for _, n := range areaNames {
		if a&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "unset"
	}
	return strings.Join(parts, ",")
}

// ParseArea converts a single area name into its flag.
func ParseArea(name string) (Area, bool) {
	for _, n := range areaNames {
		if n.name == strings.ToLower(strings.TrimSpace(name)) {
			return n.flag, true
		}
	}
	return AreaNone, false
}

// Has reports whether every bit of other is present in c.
func (c Cluster) Has(other Cluster) bool { return other != 0 && c&other == other }

// Valid reports whether c only uses known bits and is not empty.
func (c Cluster) Valid() bool { return c != 0 && c&^ClusterAll == 0 }

// String renders the set as a comma separated list.
func (c Cluster) String() string {
	var parts []string
	for _, n := range clusterNames {
		if c&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// Scope is the area selection of a variable or query source.
// It is a plain value: every builder method returns a modified copy.
type Scope struct {
	Area       Area
	ProjectID  int64
	Username   string
	GroupID    int64
	SyllabusID int64
	Milestone  string
}

// Project selects the project area.
func (s Scope) Project(id int64) Scope {
	s.Area = AreaProject
	s.ProjectID = id
	return s
}

// User selects the user area. The user's project, if already known, is kept.
func (s Scope) User(username string) Scope {
	s.Area = AreaUser
	s.Username = username
	return s
}

// Group selects the group area.
func (s Scope) Group(id int64) Scope {
	s.Area = AreaGroup
	s.GroupID = id
	return s
}

// Syllabus selects the syllabus area.
func (s Scope) Syllabus(id int64) Scope {
	s.Area = AreaSyllabus
	s.SyllabusID = id
	return s
}

// WithMilestone sets the milestone cluster key without changing the area.
func (s Scope) WithMilestone(name string) Scope {
	s.Milestone = name
	return s
}

// AsProject returns the scope moved to the project area, keeping every key.
func (s Scope) AsProject() Scope {
	s.Area = AreaProject
	return s
}

// HasCluster reports whether the key for cluster c is present.
func (s Scope) HasCluster(c Cluster) bool {
	switch c {
	case ClusterNone:
		return true
	case ClusterMilestone:
		return s.Milestone != ""
	}
	return false
}

// Scoper is implemented by anything that accepts area scoping calls.
// Query sources use the calls to resolve derived keys as a side effect.
type Scoper interface {
	Project(id int64)
	User(username string)
	Group(id int64)
	Syllabus(id int64)
	Milestone(name string)
}

// ApplyScope replays s onto target through its own scoping methods.
// Keys outside the area are applied first, the area's own setter last,
// so the target ends up in the same area as s.
func ApplyScope(target Scoper, s Scope) {
	if s.Area != AreaSyllabus && s.SyllabusID != 0 {
		target.Syllabus(s.SyllabusID)
	}
	if s.Area != AreaGroup && s.GroupID != 0 {
		target.Group(s.GroupID)
	}
	if s.Area != AreaProject && s.ProjectID != 0 {
		target.Project(s.ProjectID)
	}
	if s.Area != AreaUser && s.Username != "" {
		target.User(s.Username)
	}
	switch s.Area {
	case AreaSyllabus:
		target.Syllabus(s.SyllabusID)
	case AreaGroup:
		target.Group(s.GroupID)
	case AreaProject:
		target.Project(s.ProjectID)
	case AreaUser:
		target.User(s.Username)
	}
	if s.Milestone != "" {
		target.Milestone(s.Milestone)
	}
}
