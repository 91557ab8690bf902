// Package preprocess implements the mdBook preprocessor handshake: the
// `supports <renderer>` check, the `[context, book]` JSON payload read from
// stdin, and the processed book written back to stdout.
//
// The host configuration arrives as a JSON table. Config.Get resolves dotted
// keys ("preprocessor.template") against it the same way mdBook does.
package preprocess
