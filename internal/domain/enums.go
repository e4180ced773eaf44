package domain

type ProjectStatus string

const (
	ProjectPlanned  ProjectStatus = "planned"
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planned": true, "active": true, "paused": true, "done": true, "archived": true,
}

// ProjectStatusOrder lists statuses in the order they are grouped and displayed.
var ProjectStatusOrder = []ProjectStatus{
	ProjectActive, ProjectPlanned, ProjectPaused, ProjectDone, ProjectArchived,
}

// GroupKey selects how a project list is grouped.
type GroupKey string

const (
	GroupNone     GroupKey = ""
	GroupTeam     GroupKey = "team"
	GroupStatus   GroupKey = "status"
	GroupPriority GroupKey = "priority"
)

// ValidGroupKeys is the canonical set of accepted --group-by values.
var ValidGroupKeys = map[string]bool{
	"": true, "team": true, "status": true, "priority": true,
}

// LoadLevel classifies an assignee's total allocation in one week.
type LoadLevel string

const (
	LoadFree    LoadLevel = "free"
	LoadPartial LoadLevel = "partial"
	LoadFull    LoadLevel = "full"
	LoadOver    LoadLevel = "over"
)

// ClassifyLoad compares an allocation total against a capacity, both in percent.
func ClassifyLoad(allocatedPct, capacityPct int) LoadLevel {
	switch {
	case allocatedPct <= 0:
		return LoadFree
	case allocatedPct > capacityPct:
		return LoadOver
	case allocatedPct == capacityPct:
		return LoadFull
	default:
		return LoadPartial
	}
}
