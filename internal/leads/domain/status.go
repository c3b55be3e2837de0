// Package domain provides core business rules for the leads bounded context.
package domain

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew          Status = "new"
	StatusResearching  Status = "researching"
	StatusContacted    Status = "contacted"
	StatusQualified    Status = "qualified"
	StatusDisqualified Status = "disqualified"
)

// Source values written by the two creation paths.
const (
	SourceAIAgent    = "ai_agent"
	SourceProspector = "ai_prospector"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusNew,
	StatusResearching,
	StatusContacted,
	StatusQualified,
	StatusDisqualified,
}

// transitions holds the forward edges of the lead lifecycle.
var transitions = map[Status][]Status{
	StatusNew:         {StatusResearching},
	StatusResearching: {StatusContacted, StatusDisqualified},
	StatusContacted:   {StatusQualified, StatusDisqualified},
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusResearching, StatusContacted, StatusQualified, StatusDisqualified:
		return true
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusQualified || s == StatusDisqualified
}

// CanTransition reports whether moving from one status to another follows
// the lifecycle graph. Staying in the same status is always allowed.
// The store does not enforce this; callers use it to flag unusual moves.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus returns the status for s and whether it is valid.
func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	return st, st.Valid()
}
