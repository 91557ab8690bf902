// Package vars defines the template context assembled from data files and the
// loader contract that builds it.
//
// Sources are merged in order with shallow semantics: every top-level key of a
// later source replaces the same key from an earlier one wholesale. A source
// whose root is not an object contributes nothing and is not an error. Any read
// or parse failure aborts loading and names the offending path.
package vars
