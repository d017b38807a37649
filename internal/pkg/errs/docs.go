// Package errs holds the error kinds shared by the domain, application and adapter layers.
//
// Every kind follows the same shape: a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired), a struct carrying the offending parameter,
// constructors with and without a cause, and an Unwrap that returns the sentinel so
// callers can branch with errors.Is and inspect details with errors.As.
package errs
