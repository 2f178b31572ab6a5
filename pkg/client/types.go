package client

import "github.com/saeid-a/CoachLogBack/internal/models"

// Aliases for the wire types, so callers outside this module can name what
// the client and stores return.
type (
	DailyLog         = models.DailyLog
	LogEntry         = models.LogEntry
	LooseNumber      = models.LooseNumber
	Profile          = models.Profile
	CoachStudentLink = models.CoachStudentLink
	RosterStudent    = models.RosterStudent
	StudentSummary   = models.StudentSummary
	Event            = models.Event
)

const (
	RoleStudent = models.RoleStudent
	RoleCoach   = models.RoleCoach

	ActivityStrength = models.ActivityStrength
	ActivityCardio   = models.ActivityCardio
	ActivityGroup    = models.ActivityGroup
	ActivityRest     = models.ActivityRest
	ActivityAll      = models.ActivityAll

	EventLogSaved      = models.EventLogSaved
	EventRosterUpdated = models.EventRosterUpdated
	EventSignedIn      = models.EventSignedIn
	EventSignedOut     = models.EventSignedOut
)

// Number builds a numeric log field.
func Number(v float64) LooseNumber {
	return models.Number(v)
}
