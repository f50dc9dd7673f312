// Package scanner implements batched, filtered, sorted directory listings.
//
// Listings are produced in fixed-size batches of concurrent stat calls,
// apply a hidden-file policy and platform link handling, and are served
// through a short-lived result cache. Enumeration failures are returned
// inside the listing, never as errors, so callers can render an empty or
// error state without special-casing.
package scanner
