package seed

import (
	"fmt"
	"time"
)

// StepResult records what one plan step did.
type StepResult struct {
	Index    int           `json:"index" bson:"index"`
	Op       Kind          `json:"op" bson:"op"`
	Target   string        `json:"target" bson:"target"`
	Inserted int           `json:"inserted,omitempty" bson:"inserted,omitempty"`
	Matched  int64         `json:"matched,omitempty" bson:"matched,omitempty"`
	Modified int64         `json:"modified,omitempty" bson:"modified,omitempty"`
	Deleted  int64         `json:"deleted,omitempty" bson:"deleted,omitempty"`
	Skipped  bool          `json:"skipped,omitempty" bson:"skipped,omitempty"`
	Error    string        `json:"error,omitempty" bson:"error,omitempty"`
	Duration time.Duration `json:"duration" bson:"duration"`
}

// Report is the outcome of one Runner.Apply call.
type Report struct {
	RunID      string       `json:"runId" bson:"_id"`
	Database   string       `json:"database,omitempty" bson:"database,omitempty"`
	Collection string       `json:"collection,omitempty" bson:"collection,omitempty"`
	StartedAt  time.Time    `json:"startedAt" bson:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt" bson:"finishedAt"`
	Steps      []StepResult `json:"steps" bson:"steps"`
	Halted     bool         `json:"halted" bson:"halted"`
	Error      string       `json:"error,omitempty" bson:"error,omitempty"`
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	return r.Error != ""
}

// Applied counts steps that completed without error.
func (r *Report) Applied() int {
	n := 0
	for _, s := range r.Steps {
		if !s.Skipped && s.Error == "" {
			n++
		}
	}
	return n
}

// StepError identifies the plan step that failed. It unwraps to the store error.
type StepError struct {
	Index int
	Op    Kind
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
