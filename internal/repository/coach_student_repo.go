package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
)

type CoachStudentRepository struct {
	db DBTX
}

func NewCoachStudentRepository(db DBTX) *CoachStudentRepository {
	return &CoachStudentRepository{db: db}
}

func (r *CoachStudentRepository) Exists(ctx context.Context, coachID, studentID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM coach_students
			WHERE coach_id = $1 AND student_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, coachID, studentID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CoachStudentRepository) Create(ctx context.Context, coachID, studentID uuid.UUID) (*models.CoachStudentLink, error) {
	query := `
		INSERT INTO coach_students (coach_id, student_id)
		VALUES ($1, $2)
		RETURNING id, coach_id, student_id, created_at
	`
	var link models.CoachStudentLink
	err := r.db.QueryRow(ctx, query, coachID, studentID).Scan(
		&link.ID,
		&link.CoachID,
		&link.StudentID,
		&link.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// ListCoachIDsForStudent returns every coach that can read the student's logs.
func (r *CoachStudentRepository) ListCoachIDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT coach_id
		FROM coach_students
		WHERE student_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coachIDs := make([]uuid.UUID, 0)
	for rows.Next() {
		var coachID uuid.UUID
		if err := rows.Scan(&coachID); err != nil {
			return nil, err
		}
		coachIDs = append(coachIDs, coachID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coachIDs, nil
}
