package preprocess

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-mdtemplate/pkg/book"
)

// Preprocessor is the single capability the host drives: transform a book
// given the run context.
type Preprocessor interface {
	Name() string
	Run(ctx context.Context, pctx Context, b book.Book) (book.Book, error)
	SupportsRenderer(renderer string) bool
}

// Context mirrors the host's PreprocessorContext payload.
type Context struct {
	Root          string `json:"root"`
	Config        Config `json:"config"`
	Renderer      string `json:"renderer"`
	MdbookVersion string `json:"mdbook_version"`
}

// Config is the host's book configuration table.
type Config map[string]any

// Get resolves a dotted key against the table. Intermediate segments must be
// tables.
func (c Config) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	var current any = map[string]any(c)
	for _, segment := range strings.Split(key, ".") {
		table, ok := asTable(current)
		if !ok {
			return nil, false
		}
		current, ok = table[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Table resolves a dotted key and reports whether it names a table.
func (c Config) Table(key string) (map[string]any, bool) {
	value, ok := c.Get(key)
	if !ok {
		return nil, false
	}
	return asTable(value)
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Config:
		return map[string]any(t), true
	default:
		return nil, false
	}
}

// InputError reports a malformed stdin payload.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("preprocess: invalid input: %v", e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// ParseInput reads the `[context, book]` payload the host writes to stdin.
func ParseInput(r io.Reader) (Context, book.Book, error) {
	if r == nil {
		return Context{}, book.Book{}, &InputError{Err: errors.New("reader is nil")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Context{}, book.Book{}, &InputError{Err: fmt.Errorf("read: %w", err)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Context{}, book.Book{}, &InputError{Err: errors.New("empty payload")}
	}

	var payload []json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return Context{}, book.Book{}, &InputError{Err: fmt.Errorf("decode payload: %w", err)}
	}
	if len(payload) != 2 {
		return Context{}, book.Book{}, &InputError{Err: fmt.Errorf("expected [context, book], got %d values", len(payload))}
	}

	var pctx Context
	if err := json.Unmarshal(payload[0], &pctx); err != nil {
		return Context{}, book.Book{}, &InputError{Err: fmt.Errorf("decode context: %w", err)}
	}
	var b book.Book
	if err := json.Unmarshal(payload[1], &b); err != nil {
		return Context{}, book.Book{}, &InputError{Err: fmt.Errorf("decode book: %w", err)}
	}
	return pctx, b, nil
}

// WriteOutput serialises the processed book for the host.
func WriteOutput(w io.Writer, b book.Book) error {
	if w == nil {
		return errors.New("preprocess: writer is nil")
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("preprocess: encode book: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("preprocess: write book: %w", err)
	}
	return nil
}

// Handle runs a full stdin → stdout exchange. Nothing is written to w unless
// the preprocessor succeeds.
func Handle(ctx context.Context, p Preprocessor, r io.Reader, w io.Writer) error {
	if p == nil {
		return errors.New("preprocess: preprocessor is nil")
	}
	pctx, b, err := ParseInput(r)
	if err != nil {
		return err
	}
	processed, err := p.Run(ctx, pctx, b)
	if err != nil {
		return err
	}
	return WriteOutput(w, processed)
}
