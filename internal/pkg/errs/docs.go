// Package errs provides the typed errors shared by every layer of the field
// service: domain validation, repositories and the HTTP adapter all speak
// the same vocabulary.
//
// Every error type follows one pattern:
//   - a sentinel (ErrValueIsRequired, ErrObjectNotFound, ...) usable with errors.Is
//   - a struct carrying the offending parameter and an optional Cause
//   - constructors with and without a cause
//   - Unwrap returning the sentinel
//
// ErrVersionIsInvalid is what repositories return when an optimistic update
// loses against a concurrent writer.
package errs
