// Package template defines the engine-agnostic renderer contract used to
// expand chapter content. Engines are adapters; see the pongo subpackage.
package template
