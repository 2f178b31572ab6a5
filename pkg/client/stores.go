package client

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/saeid-a/CoachLogBack/internal/services"
)

// ApplySavedLog returns history with saved merged in. History is newest
// first. A row with the same log_date is replaced in place; a new date is
// inserted ahead of the first older row, which is the front for today's entry.
// The input slice is not modified.
func ApplySavedLog(history []DailyLog, saved DailyLog) []DailyLog {
	next := make([]DailyLog, 0, len(history)+1)
	for i, entry := range history {
		if entry.LogDate == saved.LogDate {
			next = append(next, history...)
			next[i] = saved
			return next
		}
	}

	// log_date is YYYY-MM-DD, so string order is date order.
	at := len(history)
	for i, entry := range history {
		if entry.LogDate < saved.LogDate {
			at = i
			break
		}
	}
	next = append(next, history[:at]...)
	next = append(next, saved)
	return append(next, history[at:]...)
}

type LogStore struct {
	api *Client

	mu      sync.RWMutex
	history []DailyLog
}

func NewLogStore(api *Client) *LogStore {
	return &LogStore{api: api}
}

func (s *LogStore) History() []DailyLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DailyLog(nil), s.history...)
}

func (s *LogStore) FetchHistory(ctx context.Context) ([]DailyLog, error) {
	logs, err := s.api.Logs(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.history = logs
	s.mu.Unlock()
	return s.History(), nil
}

// SaveLog upserts the entry and patches the cached history without a refetch.
func (s *LogStore) SaveLog(ctx context.Context, entry LogEntry) (*DailyLog, error) {
	saved, err := s.api.SaveLog(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.history = ApplySavedLog(s.history, *saved)
	s.mu.Unlock()
	return saved, nil
}

type RosterStore struct {
	api    *Client
	logger *log.Logger

	mu      sync.RWMutex
	roster  []RosterStudent
	loading bool
}

func NewRosterStore(api *Client, logger *log.Logger) *RosterStore {
	if logger == nil {
		logger = log.Default()
	}
	return &RosterStore{api: api, logger: logger}
}

func (s *RosterStore) Students() []RosterStudent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RosterStudent(nil), s.roster...)
}

func (s *RosterStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// FetchStudents reloads the roster. A failed load is logged and the current
// roster is kept.
func (s *RosterStore) FetchStudents(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	summaries, err := s.api.Students(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.logger.Printf("roster: fetch students failed: %v", err)
		return
	}
	s.roster = rosterFromSummaries(summaries)
}

// AddStudent links the student by email, then reloads the whole roster so the
// new student's history is included.
func (s *RosterStore) AddStudent(ctx context.Context, email string) (*CoachStudentLink, error) {
	resp, err := s.api.AddStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	s.FetchStudents(ctx)
	return resp.Link, nil
}

func (s *RosterStore) Filter(search, activity string) []RosterStudent {
	return services.FilterStudents(s.Students(), search, activity)
}

func (s *RosterStore) WeeklySteps(student RosterStudent) int {
	return services.WeeklySteps(student.Logs)
}

func rosterFromSummaries(summaries []StudentSummary) []RosterStudent {
	roster := make([]RosterStudent, 0, len(summaries))
	for _, summary := range summaries {
		student := summary.RosterStudent
		if student.Logs == nil {
			student.Logs = []DailyLog{}
		}
		roster = append(roster, student)
	}
	return roster
}

var errEmptyProfile = errors.New("empty profile in response")

type ProfileStore struct {
	api *Client

	mu      sync.RWMutex
	profile *Profile
}

func NewProfileStore(api *Client) *ProfileStore {
	return &ProfileStore{api: api}
}

func (s *ProfileStore) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	profile := *s.profile
	return &profile
}

// Restore loads the profile behind the client's stored token.
func (s *ProfileStore) Restore(ctx context.Context) (*Session, error) {
	session, err := s.api.Session(ctx)
	if err != nil {
		return nil, err
	}
	if session.Profile == nil {
		return nil, errEmptyProfile
	}
	s.set(session.Profile)
	return session, nil
}

func (s *ProfileStore) UpdateName(ctx context.Context, fullName string) (*Profile, error) {
	profile, err := s.api.UpdateName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errEmptyProfile
	}
	s.set(profile)
	return s.Profile(), nil
}

func (s *ProfileStore) UploadAvatar(ctx context.Context, filename string, file io.Reader) (*Profile, error) {
	profile, err := s.api.UploadAvatar(ctx, filename, file)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errEmptyProfile
	}
	s.set(profile)
	return s.Profile(), nil
}

func (s *ProfileStore) Clear() {
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}

func (s *ProfileStore) set(profile *Profile) {
	copied := *profile
	s.mu.Lock()
	s.profile = &copied
	s.mu.Unlock()
}
