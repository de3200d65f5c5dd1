// Package cliper orchestrates the video resume processing pipeline.
package cliper

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	apperrors "clipers-engine/internal/common/errors"
	"clipers-engine/internal/common/metrics"
	"clipers-engine/internal/extraction"
	"clipers-engine/internal/media"
	"clipers-engine/internal/models"
	"clipers-engine/internal/store"
)

// Synthesizer rebuilds the candidate's ATS profile from an extraction result.
type Synthesizer interface {
	Synthesize(ctx context.Context, userID, cliperID string, result *extraction.Result) (*models.ATSProfile, error)
}

// Dispatcher fans a notification event out to delivery channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *models.NotificationEvent)
}

// Runner executes named background functions.
type Runner interface {
	Submit(name string, run func(ctx context.Context) error) error
}

// ProcessRequest carries one Cliper upload. Media may be nil, in which case
// MediaRef is used as the video URL directly.
type ProcessRequest struct {
	UserID      string
	Title       string
	Description string
	MediaRef    string
	Duration    int
	Media       []byte
}

// Pipeline runs upload, extraction, profile synthesis and notification for a
// single Cliper. Processing failures produce a persisted FAILED record rather
// than an error; only validation and missing-entity problems surface.
type Pipeline struct {
	users       store.UserStore
	clipers     store.CliperStore
	storage     media.Storage
	extractor   extraction.Extractor
	fallback    *extraction.Fallback
	synthesizer Synthesizer
	dispatcher  Dispatcher
	runner      Runner
	logger      *zap.Logger
}

func NewPipeline(
	users store.UserStore,
	clipers store.CliperStore,
	storage media.Storage,
	extractor extraction.Extractor,
	fallback *extraction.Fallback,
	synthesizer Synthesizer,
	dispatcher Dispatcher,
	runner Runner,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		users:       users,
		clipers:     clipers,
		storage:     storage,
		extractor:   extractor,
		fallback:    fallback,
		synthesizer: synthesizer,
		dispatcher:  dispatcher,
		runner:      runner,
		logger:      logger,
	}
}

// Process validates the upload, replaces any existing Cliper for the
// candidate, and runs the full pipeline. The returned Cliper is always
// persisted; its status tells the caller whether processing succeeded.
func (p *Pipeline) Process(ctx context.Context, req ProcessRequest) (*models.Cliper, error) {
	started := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := p.users.FindByID(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("user", req.UserID)
	}
	if err != nil {
		return nil, apperrors.NewPersistenceError("find user", err)
	}
	if !user.IsCandidate() {
		return nil, apperrors.NewValidationError("only candidates can upload Clipers", "role: "+string(user.Role))
	}

	// A candidate owns at most one Cliper; uploading replaces it.
	if existing, err := p.clipers.FindByUserID(ctx, req.UserID); err == nil {
		if err := p.clipers.Delete(ctx, existing.ID); err != nil {
			return nil, apperrors.NewPersistenceError("delete previous cliper", err)
		}
		p.logger.Info("Replaced previous Cliper",
			zap.String("user_id", req.UserID),
			zap.String("previous_cliper_id", existing.ID))
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.NewPersistenceError("find previous cliper", err)
	}

	videoURL := req.MediaRef
	var mediaErr error
	if len(req.Media) > 0 {
		videoURL, mediaErr = p.storage.Save(req.MediaRef, req.Media)
	}

	cliper := models.NewCliper(req.UserID, req.Title, req.Description, videoURL, req.Duration)
	if err := p.clipers.Create(ctx, cliper); err != nil {
		return nil, apperrors.NewPersistenceError("create cliper", err)
	}

	if mediaErr != nil {
		p.fail(ctx, cliper, "persist media", mediaErr)
		return cliper, nil
	}

	p.run(ctx, cliper, videoURL != "")
	metrics.PipelineDuration.Observe(time.Since(started).Seconds())
	return cliper, nil
}

// run takes a persisted Cliper through PROCESSING to a terminal status.
// When useExtraction is false the fallback generator is used directly.
func (p *Pipeline) run(ctx context.Context, cliper *models.Cliper, useExtraction bool) {
	cliper.Transition(models.CliperProcessing)
	if err := p.clipers.Update(ctx, cliper); err != nil {
		p.fail(ctx, cliper, "mark processing", err)
		return
	}

	result := p.extract(ctx, cliper.VideoURL, useExtraction)

	cliper.Transcription = result.Transcription
	cliper.Skills = extraction.SplitValues(result.Profile.Technologies)
	cliper.Transition(models.CliperDone)
	if err := p.clipers.Update(ctx, cliper); err != nil {
		p.fail(ctx, cliper, "persist result", err)
		return
	}
	metrics.ClipersProcessed.WithLabelValues(string(models.CliperDone)).Inc()

	// Synthesis failures never fail the pipeline; the Cliper stays DONE.
	if _, err := p.synthesizer.Synthesize(ctx, cliper.UserID, cliper.ID, result); err != nil {
		p.logger.Error("ATS profile synthesis failed",
			zap.String("cliper_id", cliper.ID),
			zap.String("user_id", cliper.UserID),
			zap.Error(err))
	}

	event := models.NewNotificationEvent(models.EventCliperProcessed, cliper.UserID, "Your video resume has been processed")
	event.EntityID = cliper.ID
	p.dispatcher.Dispatch(ctx, event)

	p.logger.Info("Cliper processed",
		zap.String("cliper_id", cliper.ID),
		zap.String("user_id", cliper.UserID),
		zap.Int("skills", len(cliper.Skills)))
}

// extract calls the external service and falls back to the local generator on
// any failure, so this step never stalls the pipeline.
func (p *Pipeline) extract(ctx context.Context, videoURL string, useExtraction bool) *extraction.Result {
	if useExtraction {
		result, err := p.extractor.Extract(ctx, videoURL)
		if err == nil {
			return result
		}
		metrics.ExtractionFailures.Inc()
		p.logger.Warn("Extraction failed, using fallback generator",
			zap.String("video_url", videoURL),
			zap.Error(err))
	}
	return p.fallback.Generate(videoURL)
}

func (p *Pipeline) fail(ctx context.Context, cliper *models.Cliper, step string, err error) {
	p.logger.Error("Cliper processing failed",
		zap.String("cliper_id", cliper.ID),
		zap.String("step", step),
		zap.Error(err))

	// Not a table transition: a persist failure after the in-memory DONE step
	// must still leave the record visible as FAILED.
	cliper.Status = models.CliperFailed
	cliper.UpdatedAt = time.Now().UTC()
	if updateErr := p.clipers.Update(ctx, cliper); updateErr != nil {
		p.logger.Error("Could not persist FAILED status",
			zap.String("cliper_id", cliper.ID),
			zap.Error(updateErr))
	}
	metrics.ClipersProcessed.WithLabelValues(string(models.CliperFailed)).Inc()
}

// Retry resets a FAILED Cliper to UPLOADED and reprocesses it in the
// background using the fallback generator only. The caller returns as soon as
// the reset is persisted.
func (p *Pipeline) Retry(ctx context.Context, cliperID string) error {
	cliper, err := p.clipers.FindByID(ctx, cliperID)
	if errors.Is(err, store.ErrNotFound) {
		return apperrors.NewNotFoundError("cliper", cliperID)
	}
	if err != nil {
		return apperrors.NewPersistenceError("find cliper", err)
	}
	if !cliper.HasProcessingFailed() {
		return apperrors.NewCliperStateError(string(cliper.Status), "retried")
	}

	cliper.Transition(models.CliperUploaded)
	if err := p.clipers.Update(ctx, cliper); err != nil {
		return apperrors.NewPersistenceError("reset cliper", err)
	}

	if err := p.runner.Submit("cliper-retry", func(taskCtx context.Context) error {
		// Re-fetch so a concurrent upload or delete is not overwritten with
		// stale in-memory state.
		fresh, err := p.clipers.FindByID(taskCtx, cliperID)
		if err != nil {
			return err
		}
		if fresh.Status != models.CliperUploaded {
			p.logger.Warn("Skipping retry, Cliper status changed",
				zap.String("cliper_id", cliperID),
				zap.String("status", string(fresh.Status)))
			return nil
		}
		p.run(taskCtx, fresh, false)
		return nil
	}); err != nil {
		p.logger.Error("Could not schedule Cliper retry",
			zap.String("cliper_id", cliperID),
			zap.Error(err))
	}
	return nil
}

func validateRequest(req ProcessRequest) error {
	switch {
	case req.UserID == "":
		return apperrors.NewValidationError("userId is required", "")
	case req.Title == "":
		return apperrors.NewValidationError("title is required", "")
	case req.Duration <= 0:
		return apperrors.NewValidationError("duration must be positive", "")
	case req.MediaRef == "" && len(req.Media) == 0:
		return apperrors.NewValidationError("either mediaRef or media bytes are required", "")
	}
	return nil
}
