// Package errs provides the shared error types of the dispatch service.
//
// Every type follows the same shape:
//   - a sentinel (ErrObjectNotFound, ErrValueIsInvalid, ErrValueIsOutOfRange, ErrValueIsRequired)
//     that callers match with errors.Is
//   - a struct carrying the parameter name and an optional Cause
//   - constructors with and without cause
//
// The HTTP adapter maps the sentinels onto status codes, so domain packages should wrap
// these types rather than inventing new ones for the same situations.
package errs
