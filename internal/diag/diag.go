package diag

import (
	"fmt"
	"os"
	"os/exec"
)

// Checker validates external tools and required files before a run
// starts, so missing dependencies fail fast with an actionable message
// instead of mid-pipeline.
type Checker struct {
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

func NewChecker() *Checker {
	return &Checker{
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
}

// FFmpeg verifies the media tool is on PATH.
func (c *Checker) FFmpeg() error {
	if _, err := c.lookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH; install it (e.g. apt install ffmpeg) and retry")
	}
	return nil
}

// Model verifies the whisper model file exists for the local backend.
func (c *Checker) Model(path string) error {
	if _, err := c.stat(path); err != nil {
		return fmt.Errorf("whisper model not found at %s; download a ggml model, e.g.\n"+
			"  huggingface.co/ggerganov/whisper.cpp (ggml-base.en.bin)", path)
	}
	return nil
}

// Input verifies the source audio file exists.
func (c *Checker) Input(path string) error {
	if _, err := c.stat(path); err != nil {
		return fmt.Errorf("audio file not found: %s", path)
	}
	return nil
}
