// Package scrape harvests the jazz standards index and extracts recommended-recording citations from detail pages.
//
// # Harvesting
//
// [Scraper.Harvest] fetches the compositions index page and collects the
// first N anchor elements whose href matches the composition detail path,
// in document order. Link text becomes the standard's title; hrefs are
// resolved against the index URL so every standard carries an absolute URL.
//
// # Citation Extraction
//
// [Scraper.ExtractCitations] fetches one detail page, flattens it to visible
// text, and applies the ordered pattern [Rule] set. Each rule captures a
// capitalized two-or-three-word artist name plus a year, a dashed free-text
// tail, or the "and His Orchestra" suffix. Matches are concatenated across
// rules, deduplicated case-insensitively by artist (first occurrence wins),
// and truncated to the configured cap.
//
// The narrow artist-name shape is a deliberate precision/recall tradeoff:
// names outside it are silently missed rather than risking garbage citations.
//
// # Failure Policy
//
// Fetch and parse failures are logged and yield empty results; a bad page
// never aborts the run. Detail-page requests pass through a [rate.Limiter]
// so the source site sees a bounded request rate.
package scrape
