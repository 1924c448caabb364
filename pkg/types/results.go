package types

// ItemStatus classifies the outcome of one item in a batch operation.
// One invalid item never aborts the rest of the batch.
type ItemStatus string

const (
	StatusCreated ItemStatus = "created"
	StatusDeleted ItemStatus = "deleted"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
	StatusMissing ItemStatus = "missing"
)

// EntityOutcome is the per-item result of an entity batch operation.
type EntityOutcome struct {
	Name   string     `json:"name"`
	Status ItemStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

// RelationOutcome is the per-item result of a relation batch operation.
type RelationOutcome struct {
	Relation Relation   `json:"relation"`
	Status   ItemStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
}

// CreateEntitiesResult aggregates the outcomes of a create_entities call.
type CreateEntitiesResult struct {
	Items   []EntityOutcome `json:"items"`
	Created int             `json:"created"`
}

// AddObservationsResult reports how many observations were actually appended.
type AddObservationsResult struct {
	EntityName string   `json:"entityName"`
	Added      int      `json:"added"`
	Appended   []string `json:"appended,omitempty"`
}

// DeleteEntitiesResult aggregates entity deletions and the cascade count.
type DeleteEntitiesResult struct {
	Items            []EntityOutcome `json:"items"`
	Deleted          int             `json:"deleted"`
	RelationsDeleted int             `json:"relationsDeleted"`
}

// DeleteObservationsResult reports removed and absent observations.
type DeleteObservationsResult struct {
	EntityName string   `json:"entityName"`
	Removed    int      `json:"removed"`
	NotPresent []string `json:"notPresent,omitempty"`
}

// CreateRelationsResult aggregates the outcomes of a create_relations call.
type CreateRelationsResult struct {
	Items   []RelationOutcome `json:"items"`
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
}

// DeleteRelationsResult aggregates the outcomes of a delete_relations call.
type DeleteRelationsResult struct {
	Items   []RelationOutcome `json:"items"`
	Deleted int               `json:"deleted"`
}

// MergeResult describes an entity merge. When DryRun is true the live graph
// was left untouched and the counts describe what a real merge would do.
type MergeResult struct {
	SourceName          string `json:"sourceName"`
	TargetName          string `json:"targetName"`
	ObservationsMerged  int    `json:"observationsMerged"`
	RelationsRemapped   int    `json:"relationsRemapped"`
	DuplicatesDropped   int    `json:"duplicatesDropped"`
	DryRun              bool   `json:"dryRun"`
	ResultingEntity     Entity `json:"resultingEntity"`
	ResultingRelations  int    `json:"resultingRelations"`
}

// BackupInfo describes one snapshot in the backup history.
type BackupInfo struct {
	File          string `json:"file"`
	Timestamp     string `json:"timestamp"`
	EntityCount   int    `json:"entityCount"`
	RelationCount int    `json:"relationCount"`
}

// RestoreResult describes a completed restore.
type RestoreResult struct {
	RestoredFrom      string `json:"restoredFrom"`
	PreviousStateFile string `json:"previousStateFile"`
	EntityCount       int    `json:"entityCount"`
	RelationCount     int    `json:"relationCount"`
}
