package transcribe

import (
	"time"

	"github.com/google/uuid"

	"github.com/voicedraft/voicedraft/internal/fault"
)

// JobState tracks the one-directional lifecycle of a submit-then-poll
// transcription. Terminal states are Done, Errored and TimedOut; nothing
// else may be returned to a caller.
type JobState string

const (
	StateCreated   JobState = "created"
	StateUploaded  JobState = "uploaded"
	StateSubmitted JobState = "submitted"
	StatePolling   JobState = "polling"
	StateDone      JobState = "done"
	StateErrored   JobState = "errored"
	StateTimedOut  JobState = "timed_out"
)

func (s JobState) Terminal() bool {
	return s == StateDone || s == StateErrored || s == StateTimedOut
}

// Job is a transcription in flight. It is created at submission time, owned
// exclusively by the adapter driving it, and archived once terminal.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Provider    ID         `json:"provider"`
	Params      Params     `json:"params,omitempty"`
	State       JobState   `json:"state"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ResultURL   string     `json:"result_url,omitempty"`
	Transcript  *Transcript `json:"transcript,omitempty"`
	ErrorDetail string     `json:"error_detail,omitempty"`
}

func NewJob(provider ID, params Params) *Job {
	return &Job{
		ID:        uuid.New(),
		Provider:  provider,
		Params:    params,
		State:     StateCreated,
		CreatedAt: time.Now().UTC(),
	}
}

func (j *Job) transition(s JobState) {
	j.State = s
	if s.Terminal() {
		now := time.Now().UTC()
		j.CompletedAt = &now
	}
}

// fail records err and moves the job to the matching terminal state.
func (j *Job) fail(err error) {
	j.ErrorDetail = err.Error()
	if kind, ok := fault.KindOf(err); ok && kind == fault.KindTimeout {
		j.transition(StateTimedOut)
		return
	}
	j.transition(StateErrored)
}
