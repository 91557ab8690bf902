package preprocess_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdtemplate/pkg/book"
	"github.com/goliatone/go-mdtemplate/pkg/preprocess"
)

const payload = `[
  {
    "root": "/tmp/book",
    "config": {
      "book": {"title": "Example"},
      "preprocessor": {"template": {"paths": ["a.json", "b.json"]}}
    },
    "renderer": "html",
    "mdbook_version": "0.4.40"
  },
  {"sections": [{"Chapter": {"name": "A", "content": "hi", "sub_items": []}}], "__non_exhaustive": null}
]`

func TestParseInput(t *testing.T) {
	pctx, b, err := preprocess.ParseInput(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("parse input: %v", err)
	}
	if pctx.Root != "/tmp/book" || pctx.Renderer != "html" || pctx.MdbookVersion != "0.4.40" {
		t.Fatalf("unexpected context: %+v", pctx)
	}

	table, ok := pctx.Config.Table("preprocessor.template")
	if !ok {
		t.Fatalf("expected preprocessor.template table")
	}
	if diff := cmp.Diff([]any{"a.json", "b.json"}, table["paths"]); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	chapters := b.Chapters()
	if len(chapters) != 1 || chapters[0].Content != "hi" {
		t.Fatalf("unexpected chapters: %+v", chapters)
	}
}

func TestConfigGet(t *testing.T) {
	cfg := preprocess.Config{
		"book":         map[string]any{"title": "Example"},
		"preprocessor": map[string]any{"template": "not-a-table"},
	}

	if got, ok := cfg.Get("book.title"); !ok || got != "Example" {
		t.Fatalf("expected book.title, got %v (%v)", got, ok)
	}
	if _, ok := cfg.Get("book.title.more"); ok {
		t.Fatalf("expected lookup through a scalar to fail")
	}
	if _, ok := cfg.Table("preprocessor.template"); ok {
		t.Fatalf("expected scalar not to be reported as a table")
	}
	if _, ok := preprocess.Config(nil).Get("book"); ok {
		t.Fatalf("expected nil config lookup to fail")
	}
}

func TestParseInput_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"not json":    "{",
		"wrong arity": `[{}]`,
		"bad context": `[[], {"sections": []}]`,
		"bad book":    `[{}, {"nope": []}]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := preprocess.ParseInput(strings.NewReader(input))
			var inputErr *preprocess.InputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InputError, got %v", err)
			}
		})
	}
}

type upperPreprocessor struct {
	err error
}

func (upperPreprocessor) Name() string { return "upper" }

func (p upperPreprocessor) Run(_ context.Context, _ preprocess.Context, b book.Book) (book.Book, error) {
	if p.err != nil {
		return book.Book{}, p.err
	}
	_ = b.ForEachChapter(func(ch *book.Chapter) error {
		ch.Content = strings.ToUpper(ch.Content)
		return nil
	})
	return b, nil
}

func (upperPreprocessor) SupportsRenderer(string) bool { return true }

func TestHandle(t *testing.T) {
	var out bytes.Buffer
	if err := preprocess.Handle(context.Background(), upperPreprocessor{}, strings.NewReader(payload), &out); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(out.String(), `"content":"HI"`) {
		t.Fatalf("expected processed content in output, got %s", out.String())
	}
}

func TestHandle_FailureWritesNothing(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("boom")
	err := preprocess.Handle(context.Background(), upperPreprocessor{err: boom}, strings.NewReader(payload), &out)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}
