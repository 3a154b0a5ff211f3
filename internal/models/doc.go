// Package models defines domain entities and persistence interfaces for the jazzx pipeline.
//
// The package contains two categories of types:
//
// 1. Pipeline values: Lightweight structs flowing through the scrape → resolve → assemble stages
//   - [Standard] : One composition harvested from the index list
//   - [Citation] : One recommended-recording mention extracted from a standard's page
//   - [Candidate] : One catalog search result, read-only
//   - [Resolution] : The accepted track for a citation, if any
//
// 2. Persistent entities: Database-backed records of completed runs
//   - [Run] : Summary counters and playlist identity for one pipeline run
//   - [RunResolution] : Per-citation outcome inside a run
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
