package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"clipscribe/pkg/stt"
)

// Word is one entry in the output artifact. Timing is in seconds
// relative to the truncated clip, not the original file.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the serialized output schema.
type Transcript struct {
	Words []Word `json:"words"`
}

// FromResult flattens every segment's words into one chronological
// list, trimming surrounding whitespace from each word. Empty segments
// contribute nothing; an empty result yields an empty word list.
func FromResult(res stt.Result) Transcript {
	words := make([]Word, 0)
	for _, seg := range res.Segments {
		for _, w := range seg.Words {
			words = append(words, Word{
				Word:  strings.TrimSpace(w.Text),
				Start: w.Start,
				End:   w.End,
			})
		}
	}
	return Transcript{Words: words}
}

// WriteFile persists the transcript as pretty-printed JSON with 2-space
// indentation, overwriting any existing file at path.
func (t Transcript) WriteFile(path string) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Preview formats the first n words for operator output.
func (t Transcript) Preview(n int) []string {
	if n > len(t.Words) {
		n = len(t.Words)
	}
	lines := make([]string, 0, n)
	for _, w := range t.Words[:n] {
		lines = append(lines, fmt.Sprintf("%s (%.2fs - %.2fs)", w.Word, w.Start, w.End))
	}
	return lines
}
