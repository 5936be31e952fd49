package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"clipscribe/internal/transcript"
	"clipscribe/pkg/stt"
)

// Truncator produces a bounded-duration copy of an audio file.
type Truncator interface {
	Truncate(ctx context.Context, src, dst string, duration time.Duration) error
}

// Config describes one run.
type Config struct {
	Input    string
	Output   string
	TempClip string
	Duration time.Duration
}

// Summary reports what a successful run produced.
type Summary struct {
	WordCount int
	Output    string
	Preview   []string
}

// Stage names used in StageError and progress logs.
const (
	StageExtracting   = "extracting"
	StageTranscribing = "transcribing"
	StageWriting      = "writing"
)

// StageError names the pipeline stage that aborted a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Runner sequences extraction, recognition and formatting for one clip.
type Runner struct {
	Truncator  Truncator
	Recognizer stt.Recognizer
	Log        *slog.Logger
}

// Run executes the pipeline once. The temporary clip is removed on every
// exit path, whichever stage failed.
func (r *Runner) Run(ctx context.Context, cfg Config) (Summary, error) {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	defer func() {
		if _, err := os.Stat(cfg.TempClip); err != nil {
			return
		}
		if err := os.Remove(cfg.TempClip); err != nil {
			log.Warn("Failed to remove temporary clip", "path", cfg.TempClip, "err", err)
			return
		}
		log.Info("Cleaned up temporary clip", "path", cfg.TempClip)
	}()

	log.Info("Extracting clip", "src", cfg.Input, "duration", cfg.Duration)
	if err := r.Truncator.Truncate(ctx, cfg.Input, cfg.TempClip, cfg.Duration); err != nil {
		return Summary{}, &StageError{Stage: StageExtracting, Err: err}
	}

	log.Info("Transcribing clip", "path", cfg.TempClip)
	res, err := r.Recognizer.Transcribe(ctx, cfg.TempClip)
	if err != nil {
		return Summary{}, &StageError{Stage: StageTranscribing, Err: err}
	}

	tr := transcript.FromResult(res)
	log.Info("Writing transcript", "path", cfg.Output, "words", len(tr.Words))
	if err := tr.WriteFile(cfg.Output); err != nil {
		return Summary{}, &StageError{Stage: StageWriting, Err: err}
	}

	return Summary{
		WordCount: len(tr.Words),
		Output:    cfg.Output,
		Preview:   tr.Preview(10),
	}, nil
}
