package models

import (
	"time"

	"github.com/google/uuid"
)

type JobType string

const (
	JobFullTime   JobType = "FULL_TIME"
	JobPartTime   JobType = "PART_TIME"
	JobContract   JobType = "CONTRACT"
	JobInternship JobType = "INTERNSHIP"
)

type Job struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements []string  `json:"requirements"`
	Skills       []string  `json:"skills"`
	Location     string    `json:"location"`
	Type         JobType   `json:"type"`
	SalaryMin    float64   `json:"salaryMin,omitempty"`
	SalaryMax    float64   `json:"salaryMax,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewJob(companyID, title, description string, jobType JobType) *Job {
	return &Job{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Title:       title,
		Description: description,
		Type:        jobType,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
}
