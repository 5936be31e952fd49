package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"clipscribe/pkg/audioconv"
)

// Options configures local whisper inference.
type Options struct {
	Language    string        // e.g. "en"; empty => auto-detect
	Threads     int           // <=0 => NumCPU()
	MaxDuration time.Duration // cap on decoded audio fed to the model; 0 = no cap
}

// Transcriber runs whisper.cpp locally with token-level timestamps so
// word timing can be recovered from segment tokens.
type Transcriber struct {
	model whisper.Model
	opt   Options
}

// NewTranscriber loads a ggml model from disk. Close releases it.
func NewTranscriber(modelPath string, opt Options) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m, opt: opt}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe decodes the audio file to 16 kHz mono PCM and runs inference.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	maxSamples := 0
	if t.opt.MaxDuration > 0 {
		// one extra second of slack over the clip bound
		maxSamples = int((t.opt.MaxDuration + time.Second).Seconds() * 16000)
	}

	pcm, err := audioconv.DecodePCM16k(audioPath, maxSamples)
	if err != nil {
		return Result{}, fmt.Errorf("decode audio: %w", err)
	}
	return t.transcribePCM(ctx, pcm)
}

// transcribePCM expects mono 16 kHz float32 samples in [-1, 1].
func (t *Transcriber) transcribePCM(ctx context.Context, pcm []float32) (Result, error) {
	if t.model == nil {
		return Result{}, errors.New("nil model")
	}
	if len(pcm) == 0 {
		return Result{}, errors.New("no audio samples provided")
	}

	wctx, err := t.model.NewContext()
	if err != nil {
		return Result{}, fmt.Errorf("new context: %w", err)
	}

	lang := t.opt.Language
	if lang == "" {
		lang = "auto"
	}
	if err := wctx.SetLanguage(lang); err != nil {
		return Result{}, fmt.Errorf("set language: %w", err)
	}

	threads := t.opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))
	wctx.SetTokenTimestamps(true)

	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return Result{}, fmt.Errorf("process: %w", err)
	}

	var res Result
	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		default:
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("next segment: %w", err)
		}

		spans := make([]span, 0, len(s.Tokens))
		for _, tk := range s.Tokens {
			spans = append(spans, span{text: tk.Text, start: tk.Start, end: tk.End})
		}

		res.Segments = append(res.Segments, Segment{
			Text:  s.Text,
			Start: s.Start.Seconds(),
			End:   s.End.Seconds(),
			Words: groupSpans(spans),
		})
		if res.Text == "" {
			res.Text = s.Text
		} else {
			res.Text += " " + s.Text
		}
	}

	res.Language = wctx.DetectedLanguage()
	if res.Language == "" {
		res.Language = wctx.Language()
	}
	return res, nil
}
