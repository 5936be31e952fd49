package stt

import (
	"strings"
	"time"
)

// span is one timed text piece from the engine. Whisper emits sub-word
// tokens; a leading space on a token marks the start of a new word.
type span struct {
	text  string
	start time.Duration
	end   time.Duration
}

// groupSpans merges sub-word spans into words. Special tokens like
// "[_BEG_]" carry no text and are skipped. Word text keeps the leading
// space the engine put there.
func groupSpans(spans []span) []Word {
	var words []Word
	for _, sp := range spans {
		if isSpecial(sp.text) {
			continue
		}
		if strings.HasPrefix(sp.text, " ") || len(words) == 0 {
			words = append(words, Word{
				Text:  sp.text,
				Start: sp.start.Seconds(),
				End:   sp.end.Seconds(),
			})
			continue
		}
		last := &words[len(words)-1]
		last.Text += sp.text
		last.End = sp.end.Seconds()
	}
	return words
}

func isSpecial(text string) bool {
	return strings.HasPrefix(text, "[_") && strings.HasSuffix(text, "]")
}
