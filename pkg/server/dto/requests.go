// Package dto defines the request and response shapes for the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// EntityPayload mirrors the persisted entity shape on the wire.
type EntityPayload struct {
	Name         string   `json:"name" binding:"required"`
	EntityType   string   `json:"entityType" binding:"required"`
	Observations []string `json:"observations"`
}

// RelationPayload mirrors the persisted relation shape on the wire.
type RelationPayload struct {
	From         string `json:"from" binding:"required"`
	To           string `json:"to" binding:"required"`
	RelationType string `json:"relationType" binding:"required"`
}

// CreateEntitiesRequest is the body for POST /api/v1/entities.
type CreateEntitiesRequest struct {
	Entities []EntityPayload `json:"entities"`
}

// Validate performs validation on CreateEntitiesRequest
func (r *CreateEntitiesRequest) Validate() error {
	if len(r.Entities) == 0 {
		return errors.New("entities array cannot be empty")
	}
	return nil
}

// ObservationUpdate names an entity and the observations to add or remove.
type ObservationUpdate struct {
	EntityName   string   `json:"entityName" binding:"required"`
	Observations []string `json:"observations"`
}

// ObservationsRequest is the body for observation add and delete calls.
type ObservationsRequest struct {
	Updates []ObservationUpdate `json:"updates"`
}

// Validate performs validation on ObservationsRequest
func (r *ObservationsRequest) Validate() error {
	if len(r.Updates) == 0 {
		return errors.New("updates array cannot be empty")
	}
	for _, u := range r.Updates {
		if strings.TrimSpace(u.EntityName) == "" {
			return errors.New("entityName cannot be empty")
		}
	}
	return nil
}

// EntityNamesRequest carries a list of entity names.
type EntityNamesRequest struct {
	Names []string `json:"names"`
}

// Validate performs validation on EntityNamesRequest
func (r *EntityNamesRequest) Validate() error {
	if len(r.Names) == 0 {
		return errors.New("names array cannot be empty")
	}
	return nil
}

// RelationsRequest carries a list of relations to create or delete.
type RelationsRequest struct {
	Relations []RelationPayload `json:"relations"`
}

// Validate performs validation on RelationsRequest
func (r *RelationsRequest) Validate() error {
	if len(r.Relations) == 0 {
		return errors.New("relations array cannot be empty")
	}
	return nil
}

// MergeRequest is the body for POST /api/v1/merge.
type MergeRequest struct {
	Source string `json:"source" binding:"required"`
	Target string `json:"target" binding:"required"`
	DryRun bool   `json:"dryRun"`
}

// Validate performs validation on MergeRequest
func (r *MergeRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errors.New("source cannot be empty")
	}
	if strings.TrimSpace(r.Target) == "" {
		return errors.New("target cannot be empty")
	}
	return nil
}

// AdvancedSearchRequest is the body for POST /api/v1/search/advanced.
type AdvancedSearchRequest struct {
	EntityType      string `json:"entityType"`
	RelationType    string `json:"relationType"`
	MinObservations *int   `json:"minObservations"`
	MaxRelations    *int   `json:"maxRelations"`
	NamePattern     string `json:"namePattern"`
}

// FindPathsRequest is the body for POST /api/v1/paths.
type FindPathsRequest struct {
	Source    string `json:"source" binding:"required"`
	Target    string `json:"target" binding:"required"`
	MaxLength int    `json:"maxLength"`
}

// Validate performs validation on FindPathsRequest
func (r *FindPathsRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errors.New("source cannot be empty")
	}
	if strings.TrimSpace(r.Target) == "" {
		return errors.New("target cannot be empty")
	}
	return nil
}

// RestoreRequest is the body for POST /api/v1/admin/restore. An empty
// BackupFile restores the most recent backup.
type RestoreRequest struct {
	BackupFile string `json:"backupFile"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
