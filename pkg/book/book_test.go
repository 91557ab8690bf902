package book_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdtemplate/pkg/book"
)

const hostBook = `{
  "sections": [
    {"Chapter": {
      "name": "Intro",
      "content": "# Intro\n{{ name }}",
      "number": [1],
      "sub_items": [
        {"Chapter": {
          "name": "Nested",
          "content": "nested {{ name }}",
          "number": [1, 1],
          "sub_items": [],
          "path": "intro/nested.md",
          "source_path": "intro/nested.md",
          "parent_names": ["Intro"]
        }}
      ],
      "path": "intro.md",
      "source_path": "intro.md",
      "parent_names": []
    }},
    "Separator",
    {"PartTitle": "Reference"},
    {"Chapter": {
      "name": "Draft",
      "content": "",
      "number": null,
      "sub_items": [],
      "path": null,
      "source_path": null,
      "parent_names": []
    }}
  ],
  "__non_exhaustive": null
}`

func TestBook_DecodeWalksNestedChapters(t *testing.T) {
	var b book.Book
	if err := json.Unmarshal([]byte(hostBook), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	var names []string
	for _, ch := range b.Chapters() {
		names = append(names, ch.Name)
	}
	want := []string{"Intro", "Nested", "Draft"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("chapter order mismatch (-want +got):\n%s", diff)
	}

	if got := b.Sections[1].Kind; got != book.KindSeparator {
		t.Fatalf("expected separator, got %q", got)
	}
	if got := b.Sections[2].PartTitle; got != "Reference" {
		t.Fatalf("expected part title Reference, got %q", got)
	}
	if b.Sections[3].Chapter.Path != nil {
		t.Fatalf("expected draft chapter to have nil path")
	}
}

func TestBook_RoundTripPreservesMetadata(t *testing.T) {
	var b book.Book
	if err := json.Unmarshal([]byte(hostBook), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b.Chapters()[1].Content = "rewritten"

	encoded, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got, want any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decode encoded: %v", err)
	}
	if err := json.Unmarshal([]byte(hostBook), &want); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	wantSections := want.(map[string]any)["sections"].([]any)
	intro := wantSections[0].(map[string]any)["Chapter"].(map[string]any)
	nested := intro["sub_items"].([]any)[0].(map[string]any)["Chapter"].(map[string]any)
	nested["content"] = "rewritten"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_ItemsKeyAndUnknownVariants(t *testing.T) {
	payload := `{"items":[{"Chapter":{"name":"A","content":"a","sub_items":[]}},{"Future":{"x":1}}]}`

	var b book.Book
	if err := json.Unmarshal([]byte(payload), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := b.Sections[1].Kind; got != book.KindUnknown {
		t.Fatalf("expected unknown kind, got %q", got)
	}

	encoded, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded["sections"]; ok {
		t.Fatalf("expected items key to be preserved, got sections")
	}
	items := decoded["items"].([]any)
	if diff := cmp.Diff(map[string]any{"Future": map[string]any{"x": float64(1)}}, items[1]); diff != "" {
		t.Fatalf("unknown variant mismatch (-want +got):\n%s", diff)
	}
}

func TestBook_DecodeErrors(t *testing.T) {
	cases := map[string]string{
		"not object":       `[]`,
		"missing sections": `{"__non_exhaustive": null}`,
		"chapter no name":  `{"sections":[{"Chapter":{"content":""}}]}`,
		"bad content type": `{"sections":[{"Chapter":{"name":"A","content":3}}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			var b book.Book
			if err := json.Unmarshal([]byte(payload), &b); err == nil {
				t.Fatalf("expected error for %s", payload)
			}
		})
	}
}

func TestBook_NewEncodesHostLayout(t *testing.T) {
	b := book.New(
		book.ChapterItem(book.NewChapter("A", "a")),
		book.SeparatorItem(),
		book.PartTitleItem("Part"),
	)

	encoded, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{
		"__non_exhaustive": nil,
		"sections": []any{
			map[string]any{"Chapter": map[string]any{
				"name":      "A",
				"content":   "a",
				"sub_items": []any{},
				"path":      nil,
			}},
			"Separator",
			map[string]any{"PartTitle": "Part"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("encoded layout mismatch (-want +got):\n%s", diff)
	}
}
