// Package flow implements the transport-agnostic intake conversation:
// a per-session state machine that walks a fixed question sequence and
// hands the finished record to a notifier.
package flow

// Stage is a position in the intake question sequence.
type Stage int

const (
	AwaitLanguage Stage = iota
	AwaitService
	AwaitPlatform
	AwaitGoal
	AwaitBudget
	AwaitStoreLinks
	AwaitEmail
	AwaitNotes
)

var stageNames = map[Stage]string{
	AwaitLanguage:   "await_language",
	AwaitService:    "await_service",
	AwaitPlatform:   "await_platform",
	AwaitGoal:       "await_goal",
	AwaitBudget:     "await_budget",
	AwaitStoreLinks: "await_store_links",
	AwaitEmail:      "await_email",
	AwaitNotes:      "await_notes",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
