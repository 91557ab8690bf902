package guard_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdtemplate/pkg/guard"
)

func TestProtect(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		text     string
		captures []string
	}{
		{
			name:  "no patterns",
			input: "Hello {{ name }}!",
			text:  "Hello {{ name }}!",
		},
		{
			name:     "single pattern",
			input:    "Value: ${{ secrets.TOKEN }}",
			text:     "Value: __PROTECTED_PATTERN_0__",
			captures: []string{"${{ secrets.TOKEN }}"},
		},
		{
			name:     "ordered and non greedy",
			input:    "${{a}} and {{ b }} and ${{ c }}}}",
			text:     "__PROTECTED_PATTERN_0__ and {{ b }} and __PROTECTED_PATTERN_1__}}",
			captures: []string{"${{a}}", "${{ c }}"},
		},
		{
			name:     "nested looking",
			input:    "${{ ${{ x }} }}",
			text:     "__PROTECTED_PATTERN_0__ }}",
			captures: []string{"${{ ${{ x }}"},
		},
		{
			name:  "does not cross lines",
			input: "${{ open\nclose }}",
			text:  "${{ open\nclose }}",
		},
		{
			name:  "unclosed",
			input: "cost: ${{ 5",
			text:  "cost: ${{ 5",
		},
		{
			name:     "heading attribute",
			input:    "## Intro {#intro}\n\nHello {{name}}!",
			text:     "## Intro __PROTECTED_PATTERN_0__\n\nHello {{name}}!",
			captures: []string{"{#intro}"},
		},
		{
			name:     "attributes and expressions share indexes",
			input:    "## Deploy {#deploy .wide}\nrun: ${{ github.sha }}",
			text:     "## Deploy __PROTECTED_PATTERN_0__\nrun: __PROTECTED_PATTERN_1__",
			captures: []string{"{#deploy .wide}", "${{ github.sha }}"},
		},
		{
			name:  "engine comment untouched",
			input: "{# note #}{#x#}",
			text:  "{# note #}{#x#}",
		},
		{
			name:  "attribute does not cross lines",
			input: "{#open\n}",
			text:  "{#open\n}",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := guard.Protect(tc.input)
			if got.Text != tc.text {
				t.Fatalf("text mismatch\nwant: %q\n got: %q", tc.text, got.Text)
			}
			if diff := cmp.Diff(tc.captures, got.Captures); diff != "" {
				t.Fatalf("captures mismatch (-want +got):\n%s", diff)
			}
			if got.Protected() != (len(tc.captures) > 0) {
				t.Fatalf("Protected() = %v with %d captures", got.Protected(), len(tc.captures))
			}
		})
	}
}

func TestProtectRestore_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain markdown with no syntax",
		"run: echo ${{ github.sha }}\nenv: ${{ env.HOME }} ${{ env.HOME }}",
		strings.Repeat("${{ x }}", 12),
		"# Title {#title}\n{# note #} ${{ a }} {#b}",
	}
	for _, input := range inputs {
		g := guard.Protect(input)
		if got := guard.Restore(g.Text, g.Captures); got != input {
			t.Fatalf("round trip mismatch\nwant: %q\n got: %q", input, got)
		}
	}
}

func TestRestore(t *testing.T) {
	captures := []string{"${{ a }}", "${{ b }}"}

	cases := map[string]struct {
		rendered string
		want     string
	}{
		"duplicated placeholder": {
			rendered: "__PROTECTED_PATTERN_1__ / __PROTECTED_PATTERN_1__",
			want:     "${{ b }} / ${{ b }}",
		},
		"unknown index left alone": {
			rendered: "__PROTECTED_PATTERN_0__ __PROTECTED_PATTERN_7__",
			want:     "${{ a }} __PROTECTED_PATTERN_7__",
		},
		"missing placeholder": {
			rendered: "nothing here",
			want:     "nothing here",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := guard.Restore(tc.rendered, captures); got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRestore_DoesNotRescanRestoredText(t *testing.T) {
	captures := []string{"${{ '__PROTECTED_PATTERN_1__' }}", "${{ b }}"}
	got := guard.Restore("__PROTECTED_PATTERN_0__", captures)
	if got != captures[0] {
		t.Fatalf("want %q, got %q", captures[0], got)
	}
}

func TestRestore_NoCapturesIsIdentity(t *testing.T) {
	text := "__PROTECTED_PATTERN_0__"
	if got := guard.Restore(text, nil); got != text {
		t.Fatalf("want identity, got %q", got)
	}
}

func TestPlaceholderDistinctForMultiDigitIndexes(t *testing.T) {
	if strings.Contains(guard.Placeholder(10), guard.Placeholder(1)) {
		t.Fatalf("placeholder 10 must not contain placeholder 1")
	}
}
