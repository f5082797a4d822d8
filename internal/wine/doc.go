// Package wine holds the validated domain model produced by a crawl: the
// WineName, Vintage, and Score value objects, the Wine aggregate, and the
// Rating and Price entities bundled together in WineData.
//
// Every constructor validates its input and returns a *ValidationError naming
// the offending field. Values are immutable once built; fields are unexported
// and exposed through accessors only.
package wine
