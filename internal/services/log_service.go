package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/repository"
)

type dailyLogStore interface {
	Upsert(ctx context.Context, input repository.UpsertDailyLogInput) (*models.DailyLog, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DailyLog, error)
}

type coachLinkReader interface {
	Exists(ctx context.Context, coachID, studentID uuid.UUID) (bool, error)
	ListCoachIDsForStudent(ctx context.Context, studentID uuid.UUID) ([]uuid.UUID, error)
}

type LogService struct {
	logs     dailyLogStore
	links    coachLinkReader
	notifier Notifier
	location *time.Location
	now      func() time.Time
	logger   *log.Logger
}

func NewLogService(
	logs dailyLogStore,
	links coachLinkReader,
	notifier Notifier,
	location *time.Location,
	logger *log.Logger,
) *LogService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LogService{
		logs:     logs,
		links:    links,
		notifier: notifierOrNoop(notifier),
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// FetchHistory returns the caller's own logs, newest first.
func (s *LogService) FetchHistory(ctx context.Context, actor models.Identity, userID uuid.UUID) ([]models.DailyLog, error) {
	if userID == uuid.Nil {
		return nil, validationError("user id is required")
	}
	if actor.UserID != userID {
		return nil, ErrAccessDenied
	}

	logs, err := s.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list logs", err)
	}
	return logs, nil
}

// SaveLog upserts the student's entry for its date. Coaches linked to the
// student are told about the change.
func (s *LogService) SaveLog(ctx context.Context, actor models.Identity, userID uuid.UUID, entry models.LogEntry) (*models.DailyLog, error) {
	if userID == uuid.Nil {
		return nil, validationError("user id is required")
	}
	if actor.UserID != userID || !actor.IsStudent() {
		return nil, ErrAccessDenied
	}

	input, err := BuildLogInput(userID, entry, s.now().In(s.location))
	if err != nil {
		return nil, err
	}

	saved, err := s.logs.Upsert(ctx, input)
	if err != nil {
		return nil, storageError("save log", err)
	}

	coachIDs, err := s.links.ListCoachIDsForStudent(ctx, userID)
	if err != nil {
		s.logger.Printf("[Logs] list coaches for %s: %v", userID, err)
	} else if len(coachIDs) > 0 {
		s.notifier.Notify(models.NewEvent(models.EventLogSaved, userID, saved), coachIDs...)
	}

	return saved, nil
}

// StudentHistory lets a coach read a linked student's logs.
func (s *LogService) StudentHistory(ctx context.Context, actor models.Identity, studentID uuid.UUID) ([]models.DailyLog, error) {
	if studentID == uuid.Nil {
		return nil, validationError("student id is required")
	}
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}

	linked, err := s.links.Exists(ctx, actor.UserID, studentID)
	if err != nil {
		return nil, storageError("check link", err)
	}
	if !linked {
		return nil, ErrAccessDenied
	}

	logs, err := s.logs.ListByUser(ctx, studentID)
	if err != nil {
		return nil, storageError("list logs", err)
	}
	return logs, nil
}

// BuildLogInput coerces a submitted entry into a row. Missing, unparseable and
// negative numbers become 0; an empty date means today.
func BuildLogInput(userID uuid.UUID, entry models.LogEntry, today time.Time) (repository.UpsertDailyLogInput, error) {
	logDate := strings.TrimSpace(entry.LogDate)
	if logDate == "" {
		logDate = today.Format(models.LogDateLayout)
	} else {
		parsed, err := time.Parse(models.LogDateLayout, logDate)
		if err != nil {
			return repository.UpsertDailyLogInput{}, validationError("log_date must be YYYY-MM-DD")
		}
		logDate = parsed.Format(models.LogDateLayout)
	}

	activity, ok := models.NormalizeActivityLevel(entry.ActivityLevel)
	if !ok {
		return repository.UpsertDailyLogInput{}, validationError("unknown activity level %q", entry.ActivityLevel)
	}

	return repository.UpsertDailyLogInput{
		UserID:        userID,
		LogDate:       logDate,
		Steps:         max(entry.Steps.Int(), 0),
		Weight:        max(entry.Weight.Float(), 0),
		Calories:      max(entry.Calories.Int(), 0),
		SleepHours:    max(entry.SleepHours.Float(), 0),
		ActivityLevel: activity,
	}, nil
}
