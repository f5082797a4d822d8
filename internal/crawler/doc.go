// Package crawler defines the ports shared by the fetch, extraction, and
// search layers, the options that travel with a fetch, and the error
// taxonomy callers switch on:
//
//   - *wine.ValidationError: bad input to a value object or entity.
//   - *NetworkError: the fetch transport failed or returned nothing.
//   - *TimeoutError: the fetch exceeded its deadline.
//   - *ParsingError: required data could not be extracted from a page.
package crawler
