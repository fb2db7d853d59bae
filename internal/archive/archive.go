// Package archive persists transcription jobs once they leave the in-flight
// path: queued async submissions and their terminal outcomes.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicedraft/voicedraft/internal/transcribe"
)

// ErrNotFound is returned when no job row exists for the id.
var ErrNotFound = errors.New("archive: job not found")

// Record is one archived transcription job.
type Record struct {
	ID          uuid.UUID            `json:"id"`
	Provider    transcribe.ID        `json:"provider"`
	SourceURL   string               `json:"source_url"`
	Params      transcribe.Params    `json:"params,omitempty"`
	Fingerprint string               `json:"fingerprint,omitempty"`
	State       transcribe.JobState  `json:"state"`
	Transcript  string               `json:"transcript,omitempty"`
	Language    string               `json:"language,omitempty"`
	ErrorDetail string               `json:"error_detail,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Create inserts a freshly submitted job.
func (s *Service) Create(ctx context.Context, rec Record) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO transcription_jobs (id, provider, source_url, params, state, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, string(rec.Provider), rec.SourceURL, params, string(rec.State), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// SetState moves a job to a non-terminal state.
func (s *Service) SetState(ctx context.Context, id uuid.UUID, state transcribe.JobState) error {
	_, err := s.db.Exec(ctx,
		`UPDATE transcription_jobs SET state = $2 WHERE id = $1`,
		id, string(state),
	)
	if err != nil {
		return fmt.Errorf("update job state: %w", err)
	}
	return nil
}

// Complete records a terminal outcome.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, state transcribe.JobState, fingerprint string, transcript *transcribe.Transcript, errorDetail string) error {
	var text, language string
	if transcript != nil {
		text = transcript.Text
		language = transcript.Language
	}

	_, err := s.db.Exec(ctx,
		`UPDATE transcription_jobs
		 SET state = $2, fingerprint = $3, transcript = $4, language = $5, error_detail = $6, completed_at = now()
		 WHERE id = $1`,
		id, string(state), fingerprint, text, language, errorDetail,
	)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// Get fetches one job by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var (
		rec    Record
		params []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, provider, source_url, params, COALESCE(fingerprint, ''), state,
		        COALESCE(transcript, ''), COALESCE(language, ''), COALESCE(error_detail, ''),
		        created_at, completed_at
		 FROM transcription_jobs WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Provider, &rec.SourceURL, &params, &rec.Fingerprint, &rec.State,
		&rec.Transcript, &rec.Language, &rec.ErrorDetail, &rec.CreatedAt, &rec.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if len(params) > 0 {
		if err := json.Unmarshal(params, &rec.Params); err != nil {
			return nil, fmt.Errorf("parse job params: %w", err)
		}
	}
	return &rec, nil
}
