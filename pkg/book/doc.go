// Package book models the mdBook document collection exchanged over the
// preprocessor protocol. Only chapter names, contents, and nesting are
// interpreted; every other field is kept as raw JSON so a book survives a
// decode/encode round trip without losing metadata the host attached.
package book
