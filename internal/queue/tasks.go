package queue

const (
	TypeTranscriptionRun = "transcription:run"
)

// TranscriptionRunPayload carries an async transcription job to the worker.
// Only URL inputs go through the queue; uploaded bytes use the sync path.
type TranscriptionRunPayload struct {
	JobID     string            `json:"job_id"`
	Provider  string            `json:"provider"`
	SourceURL string            `json:"source_url"`
	Params    map[string]string `json:"params,omitempty"`
}
