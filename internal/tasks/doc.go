// Package tasks orchestrates the harvest → extract → resolve → assemble pipeline with real-time progress reporting.
//
// # Core Operations
//
// [PipelineEngine.Run] performs a full pipeline pass:
//   - Harvests the top-N standards from the index page
//   - Creates the destination playlist on the catalog
//   - Extracts recommended-recording citations per standard
//   - Resolves each citation to a catalog track via the tiered match policy
//   - Accumulates accepted track ids and appends them in ≤50-id batches
//
// # Match Policy
//
// [Resolver.Resolve] issues up to three search queries per citation and
// classifies candidates into three tiers:
//   - Tier 1: bidirectional artist containment plus a title match. Accepted
//     automatically with no interaction; short-circuits all remaining work.
//   - Tier 2: title match plus one-directional artist containment (citation
//     artist contained in a candidate artist name). Proposed, not accepted.
//   - Tier 3: the remaining candidates of the first non-empty result list,
//     proposed in result order after any tier-2 qualifiers.
//
// The tier-1/2 artist tests are intentionally asymmetric; see
// [artistMatchStrong] and [artistMatchWeak].
//
// Weak proposals go to a [Decider], which may accept, reject (advancing to
// the next tier-2/3 candidate in the same result list), or skip the citation
// entirely. Run cancellation is only observable at this decision boundary.
//
// # Progress Reporting
//
// All operations use non-blocking channel sends for progress updates.
// The [ProgressUpdate] struct contains phase, step counters, messages, and
// optional data for advanced UI rendering.
//
// # Run Recording
//
// The optional [RunRecorder] interface persists completed-run summaries and
// per-citation outcomes. Recording is best-effort: errors are logged and
// never disturb the pipeline result.
package tasks
