package tokenizer

import (
	"errors"
	"testing"

	"github.com/tyemirov/pj/internal/types"
)

type testCounter struct{}

func (testCounter) Name() string { return "stub" }

func (testCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type failingCounter struct{}

func (failingCounter) Name() string { return "failing" }

func (failingCounter) CountString(string) (int, error) { return 0, errors.New("boom") }

func TestCountBytesText(t *testing.T) {
	result, err := CountBytes(testCounter{}, []byte("hello"))
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if !result.Counted {
		t.Fatalf("expected counted result")
	}
	if result.Tokens != len([]rune("hello")) {
		t.Fatalf("expected %d tokens, got %d", len([]rune("hello")), result.Tokens)
	}
}

func TestCountBytesBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02}
	result, err := CountBytes(testCounter{}, data)
	if err != nil {
		t.Fatalf("CountBytes error: %v", err)
	}
	if result.Counted {
		t.Fatalf("expected binary data to be skipped")
	}
}

func TestCountBytesNilCounter(t *testing.T) {
	if _, err := CountBytes(nil, []byte("x")); err == nil {
		t.Fatalf("expected error for nil counter")
	}
}

func TestCountSectionsSkipsOmittedContent(t *testing.T) {
	sections := []types.DumpSection{
		{Classification: types.Classification{Kind: types.ContentKindText, Content: "abc"}},
		{Classification: types.Classification{Kind: types.ContentKindBinary}},
		{Classification: types.Classification{Kind: types.ContentKindText, Content: "de"}},
	}
	total, err := CountSections(testCounter{}, sections)
	if err != nil {
		t.Fatalf("CountSections error: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected 5 tokens, got %d", total)
	}

	if _, err := CountSections(failingCounter{}, sections); err == nil {
		t.Fatalf("expected counter error to propagate")
	}
}

func TestIsOpenAIModel(t *testing.T) {
	for _, model := range []string{"gpt-4o", "text-embedding-3-small", "o1-mini"} {
		if !isOpenAIModel(model) {
			t.Fatalf("expected %s to be recognised", model)
		}
	}
	if isOpenAIModel("claude-3") {
		t.Fatalf("claude models are not tiktoken models")
	}
}

func TestTiktokenCounterWithoutEncoding(t *testing.T) {
	if _, err := (tiktokenCounter{name: "empty"}).CountString("x"); !errors.Is(err, errNilEncoding) {
		t.Fatalf("expected errNilEncoding, got %v", err)
	}
}
