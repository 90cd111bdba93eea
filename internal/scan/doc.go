// Package scan implements the library indexing and reconciliation engine.
//
// # Core Operations
//
// A scan is a single synchronous operation over one library:
//
//  1. [WalkRoot] : Enumerate the library root into a set of canonical paths,
//     following symlinks, deduplicating, and skipping unresolvable entries
//  2. Diff : Compare the walked set against the stored set; stored−walked is
//     removed, walked−stored is extracted, the intersection is left untouched
//  3. [Extractor] : Read tags and stream properties per new path across a
//     bounded worker pool; non-media files are silently excluded
//  4. Commit : Apply deletions (memberships first) and insertions as one
//     transaction via the track repository
//
// [Engine.Scan] runs these phases and returns the paths removed from the
// catalog. [ModeFull] wipes and repopulates instead of diffing.
//
// # Consistency
//
// A scan either commits its whole delta or leaves the catalog exactly as it
// was. Per-library serialization prevents concurrent scans of the same
// library; an optional rate limit keeps extraction I/O polite on shared
// disks.
//
// # Extraction
//
// [TagLibExtractor] is the production [Extractor], reading tags and audio
// properties with taglib. "Not a media file" is an expected outcome reported
// as [shared.ErrNotMedia], distinct from I/O failures ([shared.ErrExtraction]);
// neither fails a scan.
package scan
