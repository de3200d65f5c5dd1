package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"clipers-engine/internal/common/config"
	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/common/metrics"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// Dispatcher fans a notification event out to delivery channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.NotificationEvent)
}

// Runner executes named background functions.
type Runner interface {
	Submit(name string, run func(ctx context.Context) error) error
}

// Guard decides whether this instance should run matching for a job.
type Guard interface {
	TryAcquire(ctx context.Context, jobID string) bool
}

// Orchestrator walks the candidate pool for a newly created job, persists
// matches above the minimum score and notifies candidates above the
// notification threshold.
type Orchestrator struct {
	engine     *Engine
	users      store.UserStore
	profiles   store.ProfileStore
	matches    store.MatchStore
	dispatcher Dispatcher
	runner     Runner
	guard      Guard
	cfg        config.MatchingConfig
	logger     *zap.Logger
}

func NewOrchestrator(
	engine *Engine,
	users store.UserStore,
	profiles store.ProfileStore,
	matches store.MatchStore,
	dispatcher Dispatcher,
	runner Runner,
	guard Guard,
	cfg config.MatchingConfig,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		engine:     engine,
		users:      users,
		profiles:   profiles,
		matches:    matches,
		dispatcher: dispatcher,
		runner:     runner,
		guard:      guard,
		cfg:        cfg,
		logger:     logger,
	}
}

// MatchJob schedules a candidate pool run for the job and returns
// immediately. Scheduling failures are logged, never surfaced, so job
// creation cannot fail on matching.
func (o *Orchestrator) MatchJob(job *models.Job) {
	if err := o.runner.Submit("match-job", func(ctx context.Context) error {
		return o.runPool(ctx, job)
	}); err != nil {
		o.logger.Error("Could not schedule matching run",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// runPool scores every candidate that has an ATS profile. A failure for one
// candidate is logged and the run continues with the rest of the pool.
func (o *Orchestrator) runPool(ctx context.Context, job *models.Job) error {
	if !o.guard.TryAcquire(ctx, job.ID) {
		o.logger.Info("Matching run already taken by another instance",
			zap.String("job_id", job.ID))
		return nil
	}

	candidates, err := o.users.FindCandidatesWithProfile(ctx)
	if err != nil {
		return fmt.Errorf("load candidate pool: %w", err)
	}

	o.logger.Info("Matching run started",
		zap.String("job_id", job.ID),
		zap.String("job_title", job.Title),
		zap.Int("pool_size", len(candidates)))

	persisted := 0
	for _, candidate := range candidates {
		if err := o.matchCandidate(ctx, job, candidate, &persisted); err != nil {
			o.logger.Error("Candidate matching failed, continuing with pool",
				zap.String("job_id", job.ID),
				zap.String("candidate_id", candidate.ID),
				zap.Error(err))
		}
	}

	o.logger.Info("Matching run finished",
		zap.String("job_id", job.ID),
		zap.Int("matches_persisted", persisted))
	return nil
}

func (o *Orchestrator) matchCandidate(ctx context.Context, job *models.Job, candidate *models.User, persisted *int) error {
	profile, err := o.profiles.FindByUserID(ctx, candidate.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperrors.NewMatchingCandidateError(candidate.ID, err)
	}

	score := o.engine.Score(profile, job)
	metrics.MatchScores.Observe(score.Overall)

	if score.Overall < o.cfg.MinScore {
		return nil
	}

	match := models.NewJobMatch(job.ID, candidate.ID, score.Overall,
		o.engine.Explain(score), o.engine.MatchedSkills(profile, job))
	if err := o.matches.Create(ctx, match); err != nil {
		return apperrors.NewMatchingCandidateError(candidate.ID, err)
	}
	*persisted++
	metrics.MatchesCreated.Inc()

	if score.Overall >= o.cfg.NotifyThreshold {
		message := fmt.Sprintf("New job opportunity: %s with %.0f%% compatibility", job.Title, score.Overall*100)
		event := models.NewNotificationEvent(models.EventJobMatched, candidate.ID, message)
		event.EntityID = job.ID
		o.dispatcher.Dispatch(ctx, event)
	}
	return nil
}
