package models

import (
	"time"

	"github.com/google/uuid"
)

type CoachStudentLink struct {
	ID        int64     `json:"id"`
	CoachID   uuid.UUID `json:"coach_id"`
	StudentID uuid.UUID `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RosterStudent is one linked student with the full log history, newest first.
type RosterStudent struct {
	StudentID uuid.UUID  `json:"student_id"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	AvatarURL *string    `json:"avatar_url"`
	Logs      []DailyLog `json:"daily_logs"`
}

func (s RosterStudent) LatestLog() *DailyLog {
	if len(s.Logs) == 0 {
		return nil
	}
	latest := s.Logs[0]
	return &latest
}

type StudentSummary struct {
	RosterStudent
	LastLog     *DailyLog `json:"last_log"`
	WeeklySteps int       `json:"weekly_steps"`
}
