package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RunGuard ensures the candidate pool is matched at most once per job, even
// when several engine instances receive the same job-created trigger. It is
// a Redis SETNX lease; when Redis is unavailable the guard fails open so an
// outage degrades to possible duplicate matching rather than none at all.
type RunGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRunGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RunGuard {
	return &RunGuard{client: client, ttl: ttl, logger: logger}
}

// TryAcquire reports whether this instance won the run for the job.
func (g *RunGuard) TryAcquire(ctx context.Context, jobID string) bool {
	key := fmt.Sprintf("matching:run:%s", jobID)
	ok, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		g.logger.Warn("Matching run guard unavailable, proceeding without it",
			zap.String("job_id", jobID),
			zap.Error(err))
		return true
	}
	return ok
}
