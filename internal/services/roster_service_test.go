package services

import (
	"context"
	"errors"
	"testing"

	"github.com/saeid-a/CoachLogBack/internal/models"
	"github.com/stretchr/testify/require"
)

type rosterFixture struct {
	coach    *models.Profile
	student  *models.Profile
	other    *models.Profile
	profiles *memoryProfileStore
	links    *memoryLinkStore
	roster   *stubRoster
	notifier *recordingNotifier
	service  *RosterService
}

func newRosterFixture() *rosterFixture {
	f := &rosterFixture{
		coach:    newProfile(models.RoleCoach, "coach@example.com", "Carla Coach"),
		student:  newProfile(models.RoleStudent, "anna@example.com", "Anna"),
		other:    newProfile(models.RoleCoach, "other.coach@example.com", "Otto"),
		links:    &memoryLinkStore{},
		notifier: &recordingNotifier{},
	}
	f.profiles = newMemoryProfileStore(f.coach, f.student, f.other)
	f.roster = &stubRoster{links: f.links, profiles: f.profiles}
	f.service = NewRosterService(f.profiles, f.links, f.roster, f.notifier, nil)
	return f
}

func TestAddStudentLinksAndRefreshesRoster(t *testing.T) {
	f := newRosterFixture()

	result, err := f.service.AddStudent(context.Background(), identityFor(f.coach), "  ANNA@example.com ")
	require.NoError(t, err)
	require.NotNil(t, result.Link)
	require.Equal(t, f.student.ID, result.Link.StudentID)
	require.Len(t, result.Students, 1)
	require.Equal(t, "Anna", result.Students[0].FullName)
	require.Equal(t, 1, f.roster.calls)
	require.Equal(t, []string{models.EventRosterUpdated}, f.notifier.types())
}

func TestAddStudentErrors(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		setup   func(f *rosterFixture)
		actor   func(f *rosterFixture) models.Identity
		wantErr error
	}{
		{name: "empty email", email: "   ", wantErr: ErrValidation},
		{name: "unknown email", email: "ghost@example.com", wantErr: ErrNotFound},
		{name: "self link", email: "coach@example.com", wantErr: ErrSelfLink},
		{name: "coach target", email: "other.coach@example.com", wantErr: ErrRoleMismatch},
		{
			name:  "existing link",
			email: "anna@example.com",
			setup: func(f *rosterFixture) {
				f.links.links = append(f.links.links, linkKey{coach: f.coach.ID, student: f.student.ID})
			},
			wantErr: ErrDuplicateLink,
		},
		{
			name:  "unique violation on insert",
			email: "anna@example.com",
			setup: func(f *rosterFixture) {
				f.links.createErr = errUniqueViolation
			},
			wantErr: ErrDuplicateLink,
		},
		{
			name:  "insert failure",
			email: "anna@example.com",
			setup: func(f *rosterFixture) {
				f.links.createErr = errors.New("disk full")
			},
			wantErr: ErrStorage,
		},
		{
			name:    "student caller",
			email:   "anna@example.com",
			actor:   func(f *rosterFixture) models.Identity { return identityFor(f.student) },
			wantErr: ErrAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRosterFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			actor := identityFor(f.coach)
			if tt.actor != nil {
				actor = tt.actor(f)
			}
			before := len(f.links.links)

			_, err := f.service.AddStudent(context.Background(), actor, tt.email)
			require.ErrorIs(t, err, tt.wantErr)
			require.Len(t, f.links.links, before)
			require.Empty(t, f.notifier.types())
		})
	}
}

func TestAddStudentTwiceFailsWithDuplicateLink(t *testing.T) {
	f := newRosterFixture()
	ctx := context.Background()

	_, err := f.service.AddStudent(ctx, identityFor(f.coach), "anna@example.com")
	require.NoError(t, err)

	_, err = f.service.AddStudent(ctx, identityFor(f.coach), "anna@example.com")
	require.ErrorIs(t, err, ErrDuplicateLink)
	require.Len(t, f.links.links, 1)
	require.Equal(t, 1, f.links.creates)
}

func TestAddStudentKeepsLinkWhenRefreshFails(t *testing.T) {
	f := newRosterFixture()
	f.roster.err = errors.New("timeout")

	result, err := f.service.AddStudent(context.Background(), identityFor(f.coach), "anna@example.com")
	require.NoError(t, err)
	require.NotNil(t, result.Link)
	require.Nil(t, result.Students)
}

func TestFetchStudentsRequiresCoach(t *testing.T) {
	f := newRosterFixture()

	_, err := f.service.FetchStudents(context.Background(), identityFor(f.student))
	require.ErrorIs(t, err, ErrAccessDenied)

	f.roster.err = errors.New("down")
	_, err = f.service.FetchStudents(context.Background(), identityFor(f.coach))
	require.ErrorIs(t, err, ErrStorage)
}

func sampleRoster() []models.RosterStudent {
	return []models.RosterStudent{
		{FullName: "Anna Smith", Logs: []models.DailyLog{{LogDate: "2024-05-02", ActivityLevel: models.ActivityCardio}, {LogDate: "2024-05-01", ActivityLevel: models.ActivityStrength}}},
		{FullName: "Joanna Lee", Logs: []models.DailyLog{{LogDate: "2024-05-02", ActivityLevel: models.ActivityStrength}}},
		{FullName: "Ben Ode", Logs: []models.DailyLog{}},
	}
}

func TestFilterStudentsWithoutCriteriaReturnsRoster(t *testing.T) {
	roster := sampleRoster()
	require.Equal(t, roster, FilterStudents(roster, "", models.ActivityAll))
	require.Equal(t, roster, FilterStudents(roster, "", ""))
}

func TestFilterStudentsIsCaseInsensitive(t *testing.T) {
	filtered := FilterStudents(sampleRoster(), "ann", models.ActivityAll)
	require.Len(t, filtered, 2)
	require.Equal(t, "Anna Smith", filtered[0].FullName)
	require.Equal(t, "Joanna Lee", filtered[1].FullName)
}

func TestFilterStudentsByLatestActivity(t *testing.T) {
	filtered := FilterStudents(sampleRoster(), "", models.ActivityStrength)
	require.Len(t, filtered, 1)
	require.Equal(t, "Joanna Lee", filtered[0].FullName)

	filtered = FilterStudents(sampleRoster(), "ANNA", "cardio")
	require.Len(t, filtered, 1)
	require.Equal(t, "Anna Smith", filtered[0].FullName)
}

func TestFilterStudentsEmpty(t *testing.T) {
	require.Empty(t, FilterStudents(nil, "x", models.ActivityAll))
	require.Empty(t, FilterStudents(sampleRoster(), "zed", models.ActivityAll))
	require.Empty(t, FilterStudents(sampleRoster(), "", models.ActivityGroup))
}

func TestWeeklySteps(t *testing.T) {
	require.Equal(t, 150, WeeklySteps([]models.DailyLog{{LogDate: "2024-05-05", Steps: 100}, {LogDate: "2024-05-03", Steps: 50}}))
	require.Equal(t, 0, WeeklySteps(nil))

	logs := make([]models.DailyLog, 0, 10)
	for i := 0; i < 10; i++ {
		logs = append(logs, models.DailyLog{Steps: 10})
	}
	require.Equal(t, 70, WeeklySteps(logs))
}

func TestSummarizeAddsLatestLogAndWeeklySteps(t *testing.T) {
	roster := sampleRoster()
	roster[0].Logs[0].Steps = 300
	roster[0].Logs[1].Steps = 200

	summaries := Summarize(roster)
	require.Len(t, summaries, 3)
	require.NotNil(t, summaries[0].LastLog)
	require.Equal(t, "2024-05-02", summaries[0].LastLog.LogDate)
	require.Equal(t, 500, summaries[0].WeeklySteps)
	require.Nil(t, summaries[2].LastLog)
	require.Equal(t, 0, summaries[2].WeeklySteps)
}
