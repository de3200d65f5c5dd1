package models

import (
	"time"

	"github.com/google/uuid"
)

// CliperStatus is the processing state of a video resume.
type CliperStatus string

const (
	CliperUploaded   CliperStatus = "UPLOADED"
	CliperProcessing CliperStatus = "PROCESSING"
	CliperDone       CliperStatus = "DONE"
	CliperFailed     CliperStatus = "FAILED"
)

// Cliper is a candidate's short video resume. A candidate owns at most one
// Cliper at a time; creating a new one replaces the previous one.
type Cliper struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	VideoURL      string       `json:"videoUrl"`
	Duration      int          `json:"duration"` // seconds
	Status        CliperStatus `json:"status"`
	Transcription string       `json:"transcription"`
	Skills        []string     `json:"skills"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func NewCliper(userID, title, description, videoURL string, duration int) *Cliper {
	now := time.Now().UTC()
	return &Cliper{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		VideoURL:    videoURL,
		Duration:    duration,
		Status:      CliperUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// cliperTransitions is the explicit status transition table. Transitions are
// monotonic except FAILED → UPLOADED, which only retry may take.
var cliperTransitions = map[CliperStatus][]CliperStatus{
	CliperUploaded:   {CliperProcessing, CliperFailed},
	CliperProcessing: {CliperDone, CliperFailed},
	CliperDone:       {},
	CliperFailed:     {CliperUploaded},
}

// CanTransition reports whether moving from the current status to target is legal.
func (c *Cliper) CanTransition(target CliperStatus) bool {
	for _, allowed := range cliperTransitions[c.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition moves the Cliper to target and bumps UpdatedAt. It returns false
// without mutating when the transition is illegal.
func (c *Cliper) Transition(target CliperStatus) bool {
	if !c.CanTransition(target) {
		return false
	}
	c.Status = target
	c.UpdatedAt = time.Now().UTC()
	return true
}

// CanBeEdited reports whether the Cliper may be edited or deleted. Only
// UPLOADED and FAILED are editable states.
func (c *Cliper) CanBeEdited() bool {
	return c.Status == CliperUploaded || c.Status == CliperFailed
}

// HasProcessingFailed reports whether the Cliper is eligible for retry.
func (c *Cliper) HasProcessingFailed() bool {
	return c.Status == CliperFailed
}
