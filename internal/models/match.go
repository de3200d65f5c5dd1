package models

import (
	"time"

	"github.com/google/uuid"
)

// JobMatch records a scored pairing between a job and a candidate. Only
// pairings at or above the persistence threshold are stored.
type JobMatch struct {
	ID            string    `json:"id"`
	JobID         string    `json:"jobId"`
	UserID        string    `json:"userId"`
	Score         float64   `json:"score"`
	Explanation   string    `json:"explanation"`
	MatchedSkills []string  `json:"matchedSkills"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewJobMatch(jobID, userID string, score float64, explanation string, matchedSkills []string) *JobMatch {
	return &JobMatch{
		ID:            uuid.New().String(),
		JobID:         jobID,
		UserID:        userID,
		Score:         score,
		Explanation:   explanation,
		MatchedSkills: matchedSkills,
		CreatedAt:     time.Now().UTC(),
	}
}
