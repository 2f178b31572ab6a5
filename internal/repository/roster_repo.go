package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

type RosterRepository struct {
	db DBTX
}

func NewRosterRepository(db DBTX) *RosterRepository {
	return &RosterRepository{db: db}
}

// rosterRow is one row of the coach_students -> profiles -> daily_logs join.
// Log columns are nil for a student with no logs.
type rosterRow struct {
	StudentID     uuid.UUID
	FullName      *string
	Email         string
	AvatarURL     *string
	LogID         *int64
	LogDate       *string
	Steps         *int
	Weight        *float64
	Calories      *int
	SleepHours    *float64
	ActivityLevel *string
	CreatedAt     *time.Time
	UpdatedAt     *time.Time
}

// ListForCoach loads every linked student with their logs in one round trip.
// Students keep link order; logs are newest first.
func (r *RosterRepository) ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.RosterStudent, error) {
	query := `
		SELECT p.id, p.full_name, p.email, p.avatar_url,
			l.id, to_char(l.log_date, 'YYYY-MM-DD'), l.steps, l.weight, l.calories,
			l.sleep_hours, l.activity_level, l.created_at, l.updated_at
		FROM coach_students cs
		JOIN profiles p ON p.id = cs.student_id
		LEFT JOIN daily_logs l ON l.user_id = p.id
		WHERE cs.coach_id = $1
		ORDER BY cs.created_at ASC, p.id ASC, l.log_date DESC
	`
	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scanned := make([]rosterRow, 0)
	for rows.Next() {
		var row rosterRow
		if err := rows.Scan(
			&row.StudentID,
			&row.FullName,
			&row.Email,
			&row.AvatarURL,
			&row.LogID,
			&row.LogDate,
			&row.Steps,
			&row.Weight,
			&row.Calories,
			&row.SleepHours,
			&row.ActivityLevel,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		scanned = append(scanned, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupRosterRows(scanned), nil
}

// groupRosterRows folds joined rows into one entry per student, preserving the
// order in which students first appear.
func groupRosterRows(rows []rosterRow) []models.RosterStudent {
	roster := make([]models.RosterStudent, 0)
	index := make(map[uuid.UUID]int)

	for _, row := range rows {
		pos, seen := index[row.StudentID]
		if !seen {
			student := models.RosterStudent{
				StudentID: row.StudentID,
				Email:     row.Email,
				AvatarURL: row.AvatarURL,
				Logs:      make([]models.DailyLog, 0),
			}
			if row.FullName != nil {
				student.FullName = *row.FullName
			}
			roster = append(roster, student)
			pos = len(roster) - 1
			index[row.StudentID] = pos
		}

		if row.LogID == nil {
			continue
		}
		roster[pos].Logs = append(roster[pos].Logs, row.dailyLog())
	}

	return roster
}

func (row rosterRow) dailyLog() models.DailyLog {
	log := models.DailyLog{
		ID:     *row.LogID,
		UserID: row.StudentID,
	}
	if row.LogDate != nil {
		log.LogDate = *row.LogDate
	}
	if row.Steps != nil {
		log.Steps = *row.Steps
	}
	if row.Weight != nil {
		log.Weight = *row.Weight
	}
	if row.Calories != nil {
		log.Calories = *row.Calories
	}
	if row.SleepHours != nil {
		log.SleepHours = *row.SleepHours
	}
	if row.ActivityLevel != nil {
		log.ActivityLevel = *row.ActivityLevel
	}
	if row.CreatedAt != nil {
		log.CreatedAt = *row.CreatedAt
	}
	if row.UpdatedAt != nil {
		log.UpdatedAt = *row.UpdatedAt
	}
	return log
}
