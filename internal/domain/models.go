package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StepStatus describes how far a chain step made it.
type StepStatus string

const (
	StatusSuccess       StepStatus = "success"
	StatusParseError    StepStatus = "parse_error"
	StatusUpstreamError StepStatus = "upstream_error"
)

// RunStatus is the lifecycle state of a persisted chain run.
type RunStatus string

const (
	RunProcessing RunStatus = "processing"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// Run records one execution of a named chain.
type Run struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ChainName string
	Subject   string // sanitized name the output folder is keyed on
	OutputDir string
	Status    RunStatus `gorm:"type:text"`
	Error     string
	Steps     []StepResult
	gorm.Model
}

// StepResult is a persisted execution result for a single step.
type StepResult struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	RunID          uuid.UUID `gorm:"type:uuid"`
	StepName       string
	RenderedPrompt string
	RawResponse    string
	ParsedValue    string     // JSON encoding of the parsed value
	Status         StepStatus `gorm:"type:text"`
	ModelName      string
	Provider       string
	DurationMS     int64
	gorm.Model
}
