// Package search provides read-only query operations over a graph: keyword
// search, multi-criteria filtering, statistics and health reports, bounded
// simple-path enumeration, and deterministic relation suggestions.
//
// All functions are pure with respect to the graph they receive; the Store
// calls them under its lock.
package search
