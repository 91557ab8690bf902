// Package orchestrator wires the config → context loader → renderer pipeline
// behind the preprocess.Preprocessor contract.
//
// A run has two phases. Loading reads the option block and merges every data
// file; any failure there is fatal and returned before a chapter is touched.
// Rendering then visits each chapter, nested ones included, and a chapter that
// fails keeps its original content while the run continues.
package orchestrator
