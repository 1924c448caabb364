// Package graphmem implements a persistent, file-backed labeled multigraph
// store. Named entities carry a type tag and free-text observations; typed
// directed relations connect entity pairs.
//
// The Store owns the canonical in-memory graph and serializes every
// operation through an exclusive lock. Each mutation writes a timestamped
// backup of the pre-mutation state, applies the change, and persists the
// graph atomically (write to a temporary file, then rename), so a crash
// mid-write never leaves a half-written graph file.
//
// Search, filtering, statistics, and bounded path enumeration live in
// pkg/search; community detection in pkg/community; export in pkg/export.
// The Store exposes all of them behind its lock so callers get a single,
// transport-agnostic call surface.
package graphmem
