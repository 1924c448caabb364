// Package types defines the core data model for the graphmem knowledge
// graph: entities, typed directed relations, the in-memory Graph that holds
// them, and the structured per-item results that batch operations return.
//
// Entity names are case-sensitive keys. Relations are identified by their
// (from, to, relationType) triple, which is unique within a graph. The Graph
// maintains a name index for O(1) entity lookup; all mutation goes through
// Graph methods so the index never drifts from the entity list.
package types
