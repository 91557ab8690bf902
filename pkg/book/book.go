package book

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ItemKind identifies the variant stored in an Item.
type ItemKind string

const (
	KindChapter   ItemKind = "Chapter"
	KindSeparator ItemKind = "Separator"
	KindPartTitle ItemKind = "PartTitle"
	// KindUnknown marks variants this package does not recognise. They are
	// re-emitted verbatim.
	KindUnknown ItemKind = "Unknown"
)

// sectionKeys lists the JSON keys hosts use for the top-level item list.
// mdBook 0.4 emits "sections"; 0.5 renamed it to "items".
var sectionKeys = []string{"sections", "items"}

// Book is the root of the document collection.
type Book struct {
	Sections []Item

	sectionsKey string
	extra       map[string]json.RawMessage
}

// New builds a book from the supplied items.
func New(items ...Item) Book {
	return Book{Sections: items}
}

// Item is one entry in the collection: a chapter, a separator, a part title,
// or a variant the host added later.
type Item struct {
	Kind      ItemKind
	Chapter   *Chapter
	PartTitle string

	raw json.RawMessage
}

// ChapterItem wraps a chapter as an Item.
func ChapterItem(ch *Chapter) Item {
	return Item{Kind: KindChapter, Chapter: ch}
}

// SeparatorItem returns a separator Item.
func SeparatorItem() Item {
	return Item{Kind: KindSeparator}
}

// PartTitleItem returns a part title Item.
func PartTitleItem(title string) Item {
	return Item{Kind: KindPartTitle, PartTitle: title}
}

// Chapter is a single document. Name and Content are the only fields the
// pipeline reads; Content is the only one it rewrites.
type Chapter struct {
	Name     string
	Content  string
	Path     *string
	SubItems []Item

	extra map[string]json.RawMessage
}

// NewChapter returns a chapter with the given name and content.
func NewChapter(name, content string, subItems ...Item) *Chapter {
	return &Chapter{Name: name, Content: content, SubItems: subItems}
}

// ForEachChapter visits every chapter depth-first in document order, including
// chapters nested under other chapters. Returning an error stops the walk.
func (b *Book) ForEachChapter(fn func(ch *Chapter) error) error {
	if b == nil || fn == nil {
		return nil
	}
	return walkItems(b.Sections, fn)
}

// Chapters returns every chapter in visit order.
func (b *Book) Chapters() []*Chapter {
	var out []*Chapter
	_ = b.ForEachChapter(func(ch *Chapter) error {
		out = append(out, ch)
		return nil
	})
	return out
}

func walkItems(items []Item, fn func(ch *Chapter) error) error {
	for i := range items {
		ch := items[i].Chapter
		if items[i].Kind != KindChapter || ch == nil {
			continue
		}
		if err := fn(ch); err != nil {
			return err
		}
		if err := walkItems(ch.SubItems, fn); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes the host's book object.
func (b *Book) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("book: decode: %w", err)
	}
	if fields == nil {
		return errors.New("book: expected an object")
	}

	*b = Book{}
	for _, key := range sectionKeys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := decodeItems(raw, &b.Sections); err != nil {
			return fmt.Errorf("book: decode %s: %w", key, err)
		}
		b.sectionsKey = key
		delete(fields, key)
		break
	}
	if b.sectionsKey == "" {
		return errors.New("book: missing sections")
	}
	if len(fields) > 0 {
		b.extra = fields
	}
	return nil
}

// MarshalJSON encodes the book, re-emitting fields that were not interpreted.
func (b Book) MarshalJSON() ([]byte, error) {
	key := b.sectionsKey
	if key == "" {
		key = sectionKeys[0]
	}
	out := cloneRaw(b.extra, 1)
	if _, ok := out["__non_exhaustive"]; !ok && b.sectionsKey == "" {
		out["__non_exhaustive"] = json.RawMessage("null")
	}
	sections, err := encodeItems(b.Sections)
	if err != nil {
		return nil, err
	}
	out[key] = sections
	return json.Marshal(out)
}

// UnmarshalJSON decodes an externally tagged BookItem.
func (it *Item) UnmarshalJSON(data []byte) error {
	*it = Item{}
	trimmed := bytes.TrimSpace(data)

	var tag string
	if err := json.Unmarshal(trimmed, &tag); err == nil {
		if ItemKind(tag) == KindSeparator {
			it.Kind = KindSeparator
			return nil
		}
		it.Kind = KindUnknown
		it.raw = append(json.RawMessage(nil), trimmed...)
		return nil
	}

	var variants map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &variants); err != nil {
		return fmt.Errorf("book item: %w", err)
	}
	if len(variants) == 1 {
		if raw, ok := variants[string(KindChapter)]; ok {
			ch := &Chapter{}
			if err := json.Unmarshal(raw, ch); err != nil {
				return err
			}
			it.Kind = KindChapter
			it.Chapter = ch
			return nil
		}
		if raw, ok := variants[string(KindPartTitle)]; ok {
			if err := json.Unmarshal(raw, &it.PartTitle); err != nil {
				return fmt.Errorf("book item: part title: %w", err)
			}
			it.Kind = KindPartTitle
			return nil
		}
	}

	it.Kind = KindUnknown
	it.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

// MarshalJSON encodes the item using the host's externally tagged layout.
func (it Item) MarshalJSON() ([]byte, error) {
	switch it.Kind {
	case KindChapter:
		if it.Chapter == nil {
			return nil, errors.New("book item: chapter is nil")
		}
		return json.Marshal(map[string]*Chapter{string(KindChapter): it.Chapter})
	case KindSeparator:
		return json.Marshal(string(KindSeparator))
	case KindPartTitle:
		return json.Marshal(map[string]string{string(KindPartTitle): it.PartTitle})
	default:
		if len(it.raw) == 0 {
			return nil, fmt.Errorf("book item: cannot encode kind %q", it.Kind)
		}
		return it.raw, nil
	}
}

// UnmarshalJSON decodes a chapter, keeping uninterpreted fields.
func (ch *Chapter) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("chapter: decode: %w", err)
	}
	if fields == nil {
		return errors.New("chapter: expected an object")
	}

	*ch = Chapter{}
	if err := takeField(fields, "name", &ch.Name); err != nil {
		return err
	}
	if err := takeField(fields, "content", &ch.Content); err != nil {
		return fmt.Errorf("chapter %q: %w", ch.Name, err)
	}
	if raw, ok := fields["sub_items"]; ok {
		if err := decodeItems(raw, &ch.SubItems); err != nil {
			return fmt.Errorf("chapter %q: sub_items: %w", ch.Name, err)
		}
		delete(fields, "sub_items")
	}
	if raw, ok := fields["path"]; ok {
		if err := json.Unmarshal(raw, &ch.Path); err != nil {
			return fmt.Errorf("chapter %q: path: %w", ch.Name, err)
		}
		delete(fields, "path")
	}
	if len(fields) > 0 {
		ch.extra = fields
	}
	return nil
}

// MarshalJSON encodes the chapter with its original metadata.
func (ch Chapter) MarshalJSON() ([]byte, error) {
	out := cloneRaw(ch.extra, 4)

	var err error
	if out["name"], err = json.Marshal(ch.Name); err != nil {
		return nil, err
	}
	if out["content"], err = json.Marshal(ch.Content); err != nil {
		return nil, err
	}
	if out["sub_items"], err = encodeItems(ch.SubItems); err != nil {
		return nil, err
	}
	if out["path"], err = json.Marshal(ch.Path); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func takeField(fields map[string]json.RawMessage, key string, dest *string) error {
	raw, ok := fields[key]
	if !ok {
		return fmt.Errorf("chapter: missing %s", key)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("chapter: %s: %w", key, err)
	}
	delete(fields, key)
	return nil
}

func decodeItems(raw json.RawMessage, dest *[]Item) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*dest = nil
		return nil
	}
	return json.Unmarshal(raw, dest)
}

func encodeItems(items []Item) (json.RawMessage, error) {
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(items)
}

func cloneRaw(in map[string]json.RawMessage, extra int) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(in)+extra)
	for key, value := range in {
		out[key] = value
	}
	return out
}
