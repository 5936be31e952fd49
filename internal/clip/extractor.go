package clip

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ExtractionError means both truncation strategies failed. It carries
// ffmpeg's stderr from each attempt so the operator sees the tool's own
// diagnostics.
type ExtractionError struct {
	Src          string
	CopyStderr   string
	EncodeStderr string
	Err          error
}

func (e *ExtractionError) Error() string {
	diag := strings.TrimSpace(e.EncodeStderr)
	if diag == "" {
		diag = strings.TrimSpace(e.CopyStderr)
	}
	return fmt.Sprintf("ffmpeg failed to truncate %s: %v\n%s", e.Src, e.Err, diag)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// runner abstracts process execution so tests can substitute fakes.
type runner interface {
	Run(ctx context.Context, name string, args ...string) (stderr string, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// Extractor truncates audio files with ffmpeg.
type Extractor struct {
	ffmpegPath string
	runner     runner
}

func NewExtractor() *Extractor {
	return &Extractor{ffmpegPath: "ffmpeg", runner: execRunner{}}
}

// Truncate writes the first duration of src to dst, overwriting any
// existing file there. A stream copy is tried first; if the container
// refuses copy mode the extraction is retried with an mp3 re-encode.
func (e *Extractor) Truncate(ctx context.Context, src, dst string, duration time.Duration) error {
	copyStderr, err := e.runner.Run(ctx, e.ffmpegPath, copyArgs(src, dst, duration)...)
	if err == nil {
		return nil
	}

	encodeStderr, encErr := e.runner.Run(ctx, e.ffmpegPath, reencodeArgs(src, dst, duration)...)
	if encErr == nil {
		return nil
	}

	return &ExtractionError{
		Src:          src,
		CopyStderr:   copyStderr,
		EncodeStderr: encodeStderr,
		Err:          encErr,
	}
}

func copyArgs(src, dst string, duration time.Duration) []string {
	return []string{
		"-i", src,
		"-t", seconds(duration),
		"-acodec", "copy",
		"-y",
		dst,
	}
}

func reencodeArgs(src, dst string, duration time.Duration) []string {
	return []string{
		"-i", src,
		"-t", seconds(duration),
		"-acodec", "libmp3lame",
		"-y",
		dst,
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}
