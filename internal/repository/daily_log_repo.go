package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

const dailyLogColumns = `id, user_id, to_char(log_date, 'YYYY-MM-DD'), steps, weight, calories,
		sleep_hours, activity_level, created_at, updated_at`

type UpsertDailyLogInput struct {
	UserID        uuid.UUID
	LogDate       string
	Steps         int
	Weight        float64
	Calories      int
	SleepHours    float64
	ActivityLevel string
}

type DailyLogRepository struct {
	db DBTX
}

func NewDailyLogRepository(db DBTX) *DailyLogRepository {
	return &DailyLogRepository{db: db}
}

// Upsert writes the entry for (user_id, log_date), replacing every field of an
// existing row for that day.
func (r *DailyLogRepository) Upsert(ctx context.Context, input UpsertDailyLogInput) (*models.DailyLog, error) {
	query := `
		INSERT INTO daily_logs (user_id, log_date, steps, weight, calories, sleep_hours, activity_level)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, log_date) DO UPDATE
		SET steps = EXCLUDED.steps,
			weight = EXCLUDED.weight,
			calories = EXCLUDED.calories,
			sleep_hours = EXCLUDED.sleep_hours,
			activity_level = EXCLUDED.activity_level,
			updated_at = NOW()
		RETURNING ` + dailyLogColumns

	var log models.DailyLog
	err := scanDailyLog(r.db.QueryRow(
		ctx,
		query,
		input.UserID,
		input.LogDate,
		input.Steps,
		input.Weight,
		input.Calories,
		input.SleepHours,
		input.ActivityLevel,
	), &log)
	if err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *DailyLogRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DailyLog, error) {
	query := `
		SELECT ` + dailyLogColumns + `
		FROM daily_logs
		WHERE user_id = $1
		ORDER BY log_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.DailyLog, 0)
	for rows.Next() {
		var log models.DailyLog
		if err := scanDailyLog(rows, &log); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func scanDailyLog(row rowScanner, log *models.DailyLog) error {
	return row.Scan(
		&log.ID,
		&log.UserID,
		&log.LogDate,
		&log.Steps,
		&log.Weight,
		&log.Calories,
		&log.SleepHours,
		&log.ActivityLevel,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
}
