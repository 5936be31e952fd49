package stt

import "context"

// Word is one recognized token with timing in seconds relative to the
// start of the clip. Text is kept as the engine produced it; surrounding
// whitespace is the formatter's problem.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Segment is a contiguous span of recognized speech.
type Segment struct {
	Text  string
	Start float64
	End   float64
	Words []Word
}

// Result is one recognition pass over an audio clip.
type Result struct {
	Text     string
	Language string
	Segments []Segment
}

// Recognizer converts an audio file into a timed Result.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath string) (Result, error)
	Close() error
}
