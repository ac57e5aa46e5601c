package model

import "time"

// ProgressState is the durable per-run counter set. It is owned exclusively
// by the pipeline driver and persisted at every checkpoint; on resume it is
// the sole source of truth for where the run continues.
type ProgressState struct {
	RunID              string    `json:"run_id"`
	Total              int       `json:"total"`
	Processed          int       `json:"processed"`
	Verified           int       `json:"verified"`
	NotFound           int       `json:"not_found"`
	Errors             int       `json:"errors"`
	Skipped            int       `json:"skipped"`
	LastProcessedIndex int       `json:"last_processed_index"`
	StartedAt          time.Time `json:"started_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Remaining returns the number of valid input records not yet processed.
func (p ProgressState) Remaining() int {
	n := p.Total - p.Processed
	if n < 0 {
		return 0
	}
	return n
}

// Percent returns processing progress as a percentage of the valid input.
func (p ProgressState) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// Count increments the counter matching the given record status and advances
// the processed index.
func (p *ProgressState) Count(status VerificationStatus, index int) {
	p.Processed++
	switch status {
	case StatusVerified:
		p.Verified++
	case StatusNotFound:
		p.NotFound++
	case StatusError:
		p.Errors++
	}
	p.LastProcessedIndex = index
	p.UpdatedAt = time.Now().UTC()
}
