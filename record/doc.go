// Package record provides crash-safe persistence for the single JSON
// account record and the small text artifacts (entropy seed, status files)
// that live next to it. Writes go to a sibling temporary path and are
// renamed into place, so a concurrent reader observes either the old or the
// new content, never a mix.
package record
