package stt

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// CloudRecognizer sends the clip to the OpenAI transcription endpoint
// and maps the verbose response back into a Result.
type CloudRecognizer struct {
	client   openai.Client
	model    string
	language string
}

// NewCloudRecognizer builds a recognizer backed by the OpenAI API.
// httpClient may be nil; pass one to route through a proxy.
func NewCloudRecognizer(apiKey, model, language string, httpClient *http.Client) *CloudRecognizer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}
	return &CloudRecognizer{
		client:   openai.NewClient(opts...),
		model:    model,
		language: language,
	}
}

func (c *CloudRecognizer) Close() error { return nil }

func (c *CloudRecognizer) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("open clip: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   f,
		Model:                  openai.AudioModel(c.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"word", "segment"},
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	// The typed Transcriptions.New response drops the verbose_json
	// fields, so post the form directly and decode the verbose shape.
	var verbose openai.TranscriptionVerbose
	if err := c.client.Post(ctx, "audio/transcriptions", params, &verbose); err != nil {
		return Result{}, fmt.Errorf("transcription request: %w", err)
	}
	return fromVerbose(verbose), nil
}

// fromVerbose reshapes the API response. The API reports words and
// segments as parallel top-level lists; words are dealt back into
// segments by start time so callers see one consistent shape.
func fromVerbose(v openai.TranscriptionVerbose) Result {
	res := Result{Text: strings.TrimSpace(v.Text), Language: v.Language}

	words := make([]Word, 0, len(v.Words))
	for _, w := range v.Words {
		words = append(words, Word{Text: w.Word, Start: w.Start, End: w.End})
	}

	if len(v.Segments) == 0 {
		if len(words) > 0 {
			res.Segments = []Segment{{
				Text:  res.Text,
				Start: words[0].Start,
				End:   words[len(words)-1].End,
				Words: words,
			}}
		}
		return res
	}

	next := 0
	for i, s := range v.Segments {
		seg := Segment{Text: strings.TrimSpace(s.Text), Start: s.Start, End: s.End}
		last := i == len(v.Segments)-1
		for next < len(words) && (last || words[next].Start < s.End) {
			seg.Words = append(seg.Words, words[next])
			next++
		}
		res.Segments = append(res.Segments, seg)
	}
	return res
}
