// Package refdata provides the process-wide reference-data cache.
//
// # Overview
//
// The package centers around [Cache], which lazily loads named tables (rooms,
// items, monsters, spells, ...) from one JSON file per table and keeps each
// fully-decoded [Table] in memory. Tables are immutable once published: a
// reader holding a *Table keeps seeing consistent data even across a cache
// invalidation.
//
// # Concurrency: Single-Flight Loading
//
// [Cache.EnsureLoaded] guarantees at most one decode per table name regardless
// of how many goroutines request it concurrently; late arrivals join the
// in-flight load and receive the same result. Loading is coordinated through
// golang.org/x/sync/singleflight keyed by table name; a generation counter on
// the store orders [Cache.InvalidateAll] against in-flight loads so a publish
// never resurrects data invalidated mid-decode.
//
// # Failure Semantics
//
// A failed load is never cached: a later request retries the source. Failures
// are classified as [LoadError] with a NOT_FOUND, DECODE_ERROR or IO_ERROR code
// and reported both as the error return and through the [Notifier].
package refdata
