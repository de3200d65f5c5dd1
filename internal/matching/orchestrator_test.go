package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"clipers-engine/internal/common/config"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

type fakeUserStore struct {
	candidates []*models.User
	err        error
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range f.candidates {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) FindCandidatesWithProfile(_ context.Context) ([]*models.User, error) {
	return f.candidates, f.err
}

type fakeProfileStore struct {
	byUserID map[string]*models.ATSProfile
	errFor   map[string]error
}

func (f *fakeProfileStore) FindByUserID(_ context.Context, userID string) (*models.ATSProfile, error) {
	if err, ok := f.errFor[userID]; ok {
		return nil, err
	}
	p, ok := f.byUserID[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfileStore) Save(_ context.Context, _ *models.ATSProfile) error { return nil }

type fakeMatchStore struct {
	mu      sync.Mutex
	matches []*models.JobMatch
}

func (f *fakeMatchStore) Create(_ context.Context, m *models.JobMatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches = append(f.matches, m)
	return nil
}

func (f *fakeMatchStore) FindByJobID(_ context.Context, _ string) ([]*models.JobMatch, error) {
	return f.matches, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []*models.NotificationEvent
}

func (f *fakeDispatcher) Dispatch(_ context.Context, event *models.NotificationEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

type syncRunner struct{}

func (syncRunner) Submit(_ string, run func(ctx context.Context) error) error {
	return run(context.Background())
}

type openGuard struct{}

func (openGuard) TryAcquire(context.Context, string) bool { return true }

func candidateWithProfile(id string, skills []string, experienceYears int) (*models.User, *models.ATSProfile) {
	user := &models.User{ID: id, Email: id + "@example.com", Role: models.RoleCandidate}
	profile := models.NewATSProfile(id)
	for _, s := range skills {
		profile.AddSkill(s, models.SkillIntermediate, models.SkillTechnical)
	}
	if experienceYears > 0 {
		profile.AddExperience("Acme", "Engineer", "backend",
			time.Now().UTC().AddDate(-experienceYears, 0, -1), nil)
	}
	return user, profile
}

func newOrchestratorFixture(users *fakeUserStore, profiles *fakeProfileStore, t *testing.T) (*Orchestrator, *fakeMatchStore, *fakeDispatcher) {
	matches := &fakeMatchStore{}
	dispatcher := &fakeDispatcher{}
	o := NewOrchestrator(
		NewEngine(), users, profiles, matches, dispatcher, syncRunner{}, openGuard{},
		config.MatchingConfig{MinScore: 0.3, NotifyThreshold: 0.6},
		zaptest.NewLogger(t),
	)
	return o, matches, dispatcher
}

func TestMatchJob_ThresholdBehavior(t *testing.T) {
	// strong: skill 1.0, exp 0.9, loc 1.0 → 0.97, persisted and notified.
	strong, strongProfile := candidateWithProfile("strong", []string{"Go", "PostgreSQL"}, 6)
	// middling: skill 0.5 (one of two), exp 0.2, loc 1.0 → 0.51, persisted only.
	middling, middlingProfile := candidateWithProfile("middling", []string{"Go", "Excel"}, 0)
	// weak: no skills → skill 0, exp 0.2 (no entries), loc 1.0 → 0.26, dropped.
	weak, weakProfile := candidateWithProfile("weak", nil, 0)

	users := &fakeUserStore{candidates: []*models.User{strong, middling, weak}}
	profiles := &fakeProfileStore{byUserID: map[string]*models.ATSProfile{
		"strong":   strongProfile,
		"middling": middlingProfile,
		"weak":     weakProfile,
	}}
	o, matches, dispatcher := newOrchestratorFixture(users, profiles, t)

	job := models.NewJob("company-1", "Backend Engineer", "Go services", models.JobFullTime)
	job.Skills = []string{"Go", "PostgreSQL"}
	job.Location = "Remote"

	o.MatchJob(job)

	require.Len(t, matches.matches, 2)
	byUser := map[string]*models.JobMatch{}
	for _, m := range matches.matches {
		byUser[m.UserID] = m
	}
	assert.Contains(t, byUser, "strong")
	assert.Contains(t, byUser, "middling")
	assert.NotContains(t, byUser, "weak")

	assert.InDelta(t, 0.97, byUser["strong"].Score, 1e-9)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, byUser["strong"].MatchedSkills)
	assert.Contains(t, byUser["strong"].Explanation, "compatibility")

	require.Len(t, dispatcher.events, 1)
	event := dispatcher.events[0]
	assert.Equal(t, models.EventJobMatched, event.Type)
	assert.Equal(t, "strong", event.UserID)
	assert.Equal(t, job.ID, event.EntityID)
	assert.Contains(t, event.Message, "97% compatibility")
}

func TestMatchJob_PerCandidateFailureIsolated(t *testing.T) {
	good, goodProfile := candidateWithProfile("good", []string{"Go"}, 6)
	broken, _ := candidateWithProfile("broken", []string{"Go"}, 6)

	users := &fakeUserStore{candidates: []*models.User{broken, good}}
	profiles := &fakeProfileStore{
		byUserID: map[string]*models.ATSProfile{"good": goodProfile},
		errFor:   map[string]error{"broken": assert.AnError},
	}
	o, matches, _ := newOrchestratorFixture(users, profiles, t)

	job := models.NewJob("company-1", "Backend Engineer", "", models.JobFullTime)
	job.Skills = []string{"Go"}
	o.MatchJob(job)

	require.Len(t, matches.matches, 1)
	assert.Equal(t, "good", matches.matches[0].UserID)
}

func TestMatchJob_CandidateWithoutProfileSkipped(t *testing.T) {
	user := &models.User{ID: "no-profile", Role: models.RoleCandidate}
	users := &fakeUserStore{candidates: []*models.User{user}}
	profiles := &fakeProfileStore{byUserID: map[string]*models.ATSProfile{}}
	o, matches, dispatcher := newOrchestratorFixture(users, profiles, t)

	o.MatchJob(models.NewJob("company-1", "Role", "", models.JobFullTime))

	assert.Empty(t, matches.matches)
	assert.Empty(t, dispatcher.events)
}

func TestRunGuard_SingleWinnerPerJob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	guard := NewRunGuard(client, time.Hour, zaptest.NewLogger(t))

	assert.True(t, guard.TryAcquire(context.Background(), "job-1"))
	assert.False(t, guard.TryAcquire(context.Background(), "job-1"))
	assert.True(t, guard.TryAcquire(context.Background(), "job-2"))

	// The lease expires, allowing a later re-run.
	mr.FastForward(2 * time.Hour)
	assert.True(t, guard.TryAcquire(context.Background(), "job-1"))
}

func TestRunGuard_FailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.Close()

	guard := NewRunGuard(client, time.Hour, zaptest.NewLogger(t))
	assert.True(t, guard.TryAcquire(context.Background(), "job-1"))
}

func TestOrchestrator_GuardLossSkipsRun(t *testing.T) {
	user, profile := candidateWithProfile("c", []string{"Go"}, 6)
	users := &fakeUserStore{candidates: []*models.User{user}}
	profiles := &fakeProfileStore{byUserID: map[string]*models.ATSProfile{"c": profile}}

	matches := &fakeMatchStore{}
	o := NewOrchestrator(
		NewEngine(), users, profiles, matches, &fakeDispatcher{}, syncRunner{}, closedGuard{},
		config.MatchingConfig{MinScore: 0.3, NotifyThreshold: 0.6},
		zaptest.NewLogger(t),
	)

	o.MatchJob(models.NewJob("company-1", "Role", "", models.JobFullTime))
	assert.Empty(t, matches.matches)
}

type closedGuard struct{}

func (closedGuard) TryAcquire(context.Context, string) bool { return false }
