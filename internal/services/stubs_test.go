package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/saeid-a/CoachLogBack/internal/repository"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

// memoryLogStore keeps one row per (user, date) like the daily_logs table.
type memoryLogStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[uuid.UUID]map[string]models.DailyLog
	err    error
	last   repository.UpsertDailyLogInput
}

func newMemoryLogStore() *memoryLogStore {
	return &memoryLogStore{rows: make(map[uuid.UUID]map[string]models.DailyLog)}
}

func (s *memoryLogStore) Upsert(_ context.Context, input repository.UpsertDailyLogInput) (*models.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = input
	if s.err != nil {
		return nil, s.err
	}

	byDate, ok := s.rows[input.UserID]
	if !ok {
		byDate = make(map[string]models.DailyLog)
		s.rows[input.UserID] = byDate
	}

	now := time.Now().UTC()
	row, exists := byDate[input.LogDate]
	if !exists {
		s.nextID++
		row = models.DailyLog{ID: s.nextID, UserID: input.UserID, LogDate: input.LogDate, CreatedAt: now}
	}
	row.Steps = input.Steps
	row.Weight = input.Weight
	row.Calories = input.Calories
	row.SleepHours = input.SleepHours
	row.ActivityLevel = input.ActivityLevel
	row.UpdatedAt = now
	byDate[input.LogDate] = row
	return &row, nil
}

func (s *memoryLogStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.DailyLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	logs := make([]models.DailyLog, 0, len(s.rows[userID]))
	for _, row := range s.rows[userID] {
		logs = append(logs, row)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].LogDate > logs[j].LogDate })
	return logs, nil
}

type linkKey struct {
	coach   uuid.UUID
	student uuid.UUID
}

type memoryLinkStore struct {
	links     []linkKey
	existsErr error
	createErr error
	listErr   error
	creates   int
}

func (s *memoryLinkStore) Exists(_ context.Context, coachID, studentID uuid.UUID) (bool, error) {
	if s.existsErr != nil {
		return false, s.existsErr
	}
	for _, link := range s.links {
		if link.coach == coachID && link.student == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryLinkStore) Create(_ context.Context, coachID, studentID uuid.UUID) (*models.CoachStudentLink, error) {
	s.creates++
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.links = append(s.links, linkKey{coach: coachID, student: studentID})
	return &models.CoachStudentLink{
		ID:        int64(len(s.links)),
		CoachID:   coachID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *memoryLinkStore) ListCoachIDsForStudent(_ context.Context, studentID uuid.UUID) ([]uuid.UUID, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	coachIDs := make([]uuid.UUID, 0)
	for _, link := range s.links {
		if link.student == studentID {
			coachIDs = append(coachIDs, link.coach)
		}
	}
	return coachIDs, nil
}

type memoryProfileStore struct {
	byID    map[uuid.UUID]*models.Profile
	err     error
	updates int
}

func newMemoryProfileStore(profiles ...*models.Profile) *memoryProfileStore {
	store := &memoryProfileStore{byID: make(map[uuid.UUID]*models.Profile)}
	for _, profile := range profiles {
		store.byID[profile.ID] = profile
	}
	return store
}

func (s *memoryProfileStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *profile
	return &copied, nil
}

func (s *memoryProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, profile := range s.byID {
		if profile.Email == email {
			copied := *profile
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *memoryProfileStore) UpdateFullName(_ context.Context, id uuid.UUID, fullName string) (*models.Profile, error) {
	s.updates++
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile.FullName = &fullName
	copied := *profile
	return &copied, nil
}

func (s *memoryProfileStore) UpdateAvatarURL(_ context.Context, id uuid.UUID, avatarURL string) (*models.Profile, error) {
	s.updates++
	if s.err != nil {
		return nil, s.err
	}
	profile, ok := s.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	profile.AvatarURL = &avatarURL
	copied := *profile
	return &copied, nil
}

// stubRoster serves the roster built from the link and log stores.
type stubRoster struct {
	links    *memoryLinkStore
	profiles *memoryProfileStore
	logs     *memoryLogStore
	err      error
	calls    int
}

func (s *stubRoster) ListForCoach(ctx context.Context, coachID uuid.UUID) ([]models.RosterStudent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	roster := make([]models.RosterStudent, 0)
	for _, link := range s.links.links {
		if link.coach != coachID {
			continue
		}
		profile := s.profiles.byID[link.student]
		student := models.RosterStudent{StudentID: profile.ID, Email: profile.Email, Logs: []models.DailyLog{}}
		if profile.FullName != nil {
			student.FullName = *profile.FullName
		}
		if s.logs != nil {
			logs, _ := s.logs.ListByUser(ctx, profile.ID)
			student.Logs = logs
		}
		roster = append(roster, student)
	}
	return roster, nil
}

type sentEvent struct {
	event      models.Event
	recipients []uuid.UUID
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (n *recordingNotifier) Notify(event models.Event, userIDs ...uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEvent{event: event, recipients: userIDs})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, 0, len(n.sent))
	for _, sent := range n.sent {
		types = append(types, sent.event.Type)
	}
	return types
}

type stubStorage struct {
	baseURL     string
	err         error
	lastPath    string
	lastType    string
	lastContent []byte
}

func (s *stubStorage) UploadObject(_ context.Context, content io.Reader, objectPath string, contentType string) (string, error) {
	s.lastPath = objectPath
	s.lastType = contentType
	s.lastContent, _ = io.ReadAll(content)
	if s.err != nil {
		return "", s.err
	}
	return s.baseURL + "/" + objectPath, nil
}

func newProfile(role, email, name string) *models.Profile {
	profile := &models.Profile{ID: uuid.New(), Role: role, Email: email}
	if name != "" {
		profile.FullName = &name
	}
	return profile
}

func identityFor(profile *models.Profile) models.Identity {
	return models.Identity{UserID: profile.ID, Role: profile.Role, Email: profile.Email}
}
