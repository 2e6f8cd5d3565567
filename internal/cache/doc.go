// Package cache provides the two retention layers around scan results:
// a bounded in-memory cache used within one batch run, and a SQLite
// history store that persists results across runs with age- and
// row-based expiry.
package cache
