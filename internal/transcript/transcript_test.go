package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"clipscribe/pkg/stt"
)

func TestFromResultTrimsAndSkipsEmptySegments(t *testing.T) {
	res := stt.Result{
		Segments: []stt.Segment{
			{Words: []stt.Word{{Text: " Hello", Start: 0.0, End: 0.4}}},
			{Words: nil},
			{Words: []stt.Word{{Text: " world ", Start: 0.4, End: 0.9}}},
		},
	}

	tr := FromResult(res)
	if len(tr.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(tr.Words))
	}
	if tr.Words[0].Word != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", tr.Words[0].Word)
	}
	if tr.Words[1].Word != "world" {
		t.Errorf("expected %q, got %q", "world", tr.Words[1].Word)
	}
	if tr.Words[0].Start != 0.0 || tr.Words[0].End != 0.4 {
		t.Errorf("timing must pass through unchanged, got %f-%f", tr.Words[0].Start, tr.Words[0].End)
	}
}

func TestFromResultPreservesEncounterOrder(t *testing.T) {
	res := stt.Result{
		Segments: []stt.Segment{
			{Words: []stt.Word{
				{Text: "a", Start: 0.0, End: 0.1},
				{Text: "b", Start: 0.1, End: 0.2},
			}},
			{Words: []stt.Word{{Text: "c", Start: 0.2, End: 0.3}}},
		},
	}

	tr := FromResult(res)
	got := ""
	for _, w := range tr.Words {
		got += w.Word
	}
	if got != "abc" {
		t.Errorf("expected order abc, got %q", got)
	}
	for i := 1; i < len(tr.Words); i++ {
		if tr.Words[i].Start < tr.Words[i-1].Start {
			t.Errorf("start times must be non-decreasing at %d", i)
		}
	}
}

func TestWriteFileProducesPrettyJSON(t *testing.T) {
	tr := Transcript{Words: []Word{{Word: "Hello", Start: 0.0, End: 0.4}}}

	path := filepath.Join(t.TempDir(), "transcription.json")
	if err := tr.WriteFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "words": [
    {
      "word": "Hello",
      "start": 0,
      "end": 0.4
    }
  ]
}`
	if string(data) != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", data, want)
	}
}

func TestWriteFileEmptyTranscript(t *testing.T) {
	tr := FromResult(stt.Result{})

	path := filepath.Join(t.TempDir(), "transcription.json")
	if err := tr.WriteFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `{
  "words": []
}`
	if string(data) != want {
		t.Errorf("empty transcript must serialize as an empty list, got:\n%s", data)
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcription.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	tr := Transcript{Words: []Word{}}
	if err := tr.WriteFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) == "stale" {
		t.Error("expected prior output to be overwritten")
	}
}

func TestPreviewFormatsTwoDecimals(t *testing.T) {
	tr := Transcript{Words: []Word{
		{Word: "The", Start: 0, End: 0.325},
		{Word: "Picture", Start: 0.325, End: 0.81},
	}}

	lines := tr.Preview(10)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "The (0.00s - 0.33s)" {
		t.Errorf("unexpected preview line: %q", lines[0])
	}
	if lines[1] != "Picture (0.33s - 0.81s)" {
		t.Errorf("unexpected preview line: %q", lines[1])
	}

	if got := tr.Preview(1); len(got) != 1 {
		t.Errorf("expected preview capped at 1, got %d", len(got))
	}
}
