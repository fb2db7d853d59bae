package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/voicedraft/voicedraft/internal/archive"
	"github.com/voicedraft/voicedraft/internal/audio"
	"github.com/voicedraft/voicedraft/internal/fault"
	"github.com/voicedraft/voicedraft/internal/queue"
	"github.com/voicedraft/voicedraft/internal/transcribe"
)

// TranscriptionWorker runs queued transcription jobs through the dispatcher
// and archives the terminal outcome. A provider failure is a recorded
// outcome, not a task error: the task itself only fails on malformed
// payloads or archive trouble.
type TranscriptionWorker struct {
	dispatcher *transcribe.Dispatcher
	archive    *archive.Service
}

func NewTranscriptionWorker(dispatcher *transcribe.Dispatcher, arch *archive.Service) *TranscriptionWorker {
	return &TranscriptionWorker{dispatcher: dispatcher, archive: arch}
}

func (w *TranscriptionWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.TranscriptionRunPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	jobID, err := uuid.Parse(p.JobID)
	if err != nil {
		return fmt.Errorf("parse job id %q: %w", p.JobID, err)
	}

	if err := w.archive.SetState(ctx, jobID, transcribe.StateSubmitted); err != nil {
		return fmt.Errorf("mark job running: %w", err)
	}

	transcript, fingerprint, runErr := w.dispatcher.RunKeyed(ctx, transcribe.ID(p.Provider), audio.Input{URL: p.SourceURL}, p.Params)

	state := transcribe.StateDone
	detail := ""
	if runErr != nil {
		detail = runErr.Error()
		if kind, ok := fault.KindOf(runErr); ok && kind == fault.KindTimeout {
			state = transcribe.StateTimedOut
		} else if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			state = transcribe.StateTimedOut
		} else {
			state = transcribe.StateErrored
		}
	}

	// Completion must be recorded even when the caller's context is gone.
	completeCtx := context.WithoutCancel(ctx)
	if err := w.archive.Complete(completeCtx, jobID, state, fingerprint, transcript, detail); err != nil {
		return fmt.Errorf("archive job %s: %w", jobID, err)
	}

	slog.Info("transcription job finished", "job_id", jobID, "provider", p.Provider, "state", state)
	return nil
}
