package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const LogDateLayout = "2006-01-02"

const (
	ActivityStrength = "Strength training"
	ActivityCardio   = "Cardio training"
	ActivityGroup    = "Group training"
	ActivityRest     = "Rest day"

	// ActivityAll disables the activity filter on roster views.
	ActivityAll = "All"
)

var ActivityLevels = []string{ActivityStrength, ActivityCardio, ActivityGroup, ActivityRest}

var activityAliases = map[string]string{
	"strength":          ActivityStrength,
	"strength training": ActivityStrength,
	"cardio":            ActivityCardio,
	"cardio training":   ActivityCardio,
	"group":             ActivityGroup,
	"group training":    ActivityGroup,
	"rest":              ActivityRest,
	"rest day":          ActivityRest,
}

// NormalizeActivityLevel maps short names and any casing onto the display
// string stored in daily_logs. An empty value means a rest day.
func NormalizeActivityLevel(value string) (string, bool) {
	key := strings.ToLower(strings.Join(strings.Fields(value), " "))
	if key == "" {
		return ActivityRest, true
	}
	canonical, ok := activityAliases[key]
	return canonical, ok
}

type DailyLog struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	LogDate       string    `json:"log_date"`
	Steps         int       `json:"steps"`
	Weight        float64   `json:"weight"`
	Calories      int       `json:"calories"`
	SleepHours    float64   `json:"sleep_hours"`
	ActivityLevel string    `json:"activity_level"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LogEntry is a daily entry as submitted by a student, before coercion.
type LogEntry struct {
	LogDate       string      `json:"log_date"`
	Steps         LooseNumber `json:"steps"`
	Weight        LooseNumber `json:"weight"`
	Calories      LooseNumber `json:"calories"`
	SleepHours    LooseNumber `json:"sleep_hours"`
	ActivityLevel string      `json:"activity_level"`
}
