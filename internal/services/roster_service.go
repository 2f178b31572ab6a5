package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/repository"
)

const weeklyWindow = 7

type profileEmailLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
}

type coachLinkWriter interface {
	Exists(ctx context.Context, coachID, studentID uuid.UUID) (bool, error)
	Create(ctx context.Context, coachID, studentID uuid.UUID) (*models.CoachStudentLink, error)
}

type rosterReader interface {
	ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.RosterStudent, error)
}

type AddStudentResult struct {
	Link     *models.CoachStudentLink `json:"link"`
	Students []models.RosterStudent   `json:"students"`
}

type RosterService struct {
	profiles profileEmailLookup
	links    coachLinkWriter
	roster   rosterReader
	notifier Notifier
	logger   *log.Logger
}

func NewRosterService(
	profiles profileEmailLookup,
	links coachLinkWriter,
	roster rosterReader,
	notifier Notifier,
	logger *log.Logger,
) *RosterService {
	if logger == nil {
		logger = log.Default()
	}
	return &RosterService{
		profiles: profiles,
		links:    links,
		roster:   roster,
		notifier: notifierOrNoop(notifier),
		logger:   logger,
	}
}

func (s *RosterService) FetchStudents(ctx context.Context, actor models.Identity) ([]models.RosterStudent, error) {
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}

	students, err := s.roster.ListForCoach(ctx, actor.UserID)
	if err != nil {
		return nil, storageError("load roster", err)
	}
	return students, nil
}

// AddStudent links the student registered under targetEmail to the coach and
// returns the refreshed roster.
func (s *RosterService) AddStudent(ctx context.Context, actor models.Identity, targetEmail string) (*AddStudentResult, error) {
	if !actor.IsCoach() {
		return nil, ErrAccessDenied
	}

	email := strings.ToLower(strings.TrimSpace(targetEmail))
	if email == "" {
		return nil, validationError("email is required")
	}

	target, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, storageError("lookup student", err)
	}

	if target.ID == actor.UserID {
		return nil, ErrSelfLink
	}
	if target.Role != models.RoleStudent {
		return nil, ErrRoleMismatch
	}

	exists, err := s.links.Exists(ctx, actor.UserID, target.ID)
	if err != nil {
		return nil, storageError("check link", err)
	}
	if exists {
		return nil, ErrDuplicateLink
	}

	link, err := s.links.Create(ctx, actor.UserID, target.ID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateLink
		}
		return nil, storageError("create link", err)
	}

	result := &AddStudentResult{Link: link}
	students, err := s.FetchStudents(ctx, actor)
	if err != nil {
		s.logger.Printf("[Roster] refresh after adding %s for coach %s: %v", target.ID, actor.UserID, err)
	} else {
		result.Students = students
	}

	s.notifier.Notify(models.NewEvent(models.EventRosterUpdated, actor.UserID, link), actor.UserID)
	return result, nil
}

// FilterStudents keeps students whose name contains search (case-insensitive)
// and whose most recent log matches activity. "All" or an empty activity
// disables that filter.
func FilterStudents(roster []models.RosterStudent, search, activity string) []models.RosterStudent {
	needle := strings.ToLower(search)

	wantActivity := ""
	if activity != "" && !strings.EqualFold(activity, models.ActivityAll) {
		wantActivity = activity
		if canonical, ok := models.NormalizeActivityLevel(activity); ok {
			wantActivity = canonical
		}
	}

	filtered := make([]models.RosterStudent, 0, len(roster))
	for _, student := range roster {
		if !strings.Contains(strings.ToLower(student.FullName), needle) {
			continue
		}
		if wantActivity != "" {
			latest := student.LatestLog()
			if latest == nil || latest.ActivityLevel != wantActivity {
				continue
			}
		}
		filtered = append(filtered, student)
	}
	return filtered
}

// WeeklySteps sums the newest seven entries. Logs must be newest first; days
// without an entry are not counted, so the window can span more than a week.
func WeeklySteps(logs []models.DailyLog) int {
	total := 0
	for i, entry := range logs {
		if i == weeklyWindow {
			break
		}
		total += entry.Steps
	}
	return total
}

func Summarize(roster []models.RosterStudent) []models.StudentSummary {
	summaries := make([]models.StudentSummary, 0, len(roster))
	for _, student := range roster {
		summaries = append(summaries, models.StudentSummary{
			RosterStudent: student,
			LastLog:       student.LatestLog(),
			WeeklySteps:   WeeklySteps(student.Logs),
		})
	}
	return summaries
}
