// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/search"
	"github.com/soundprediction/graphmem/pkg/server/dto"
	"github.com/soundprediction/graphmem/pkg/types"
)

// GraphHandler handles graph read and mutation requests
type GraphHandler struct {
	store *graphmem.Store
}

// NewGraphHandler creates a new graph handler
func NewGraphHandler(store *graphmem.Store) *GraphHandler {
	return &GraphHandler{store: store}
}

// statusFor maps storage errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrMissingEntity):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateEntity), errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

func abortBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "invalid_request",
		Message: err.Error(),
		Code:    http.StatusBadRequest,
	})
}

// ReadGraph handles GET /api/v1/graph
func (h *GraphHandler) ReadGraph(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.ReadGraph())
}

// CreateEntities handles POST /api/v1/entities
func (h *GraphHandler) CreateEntities(c *gin.Context) {
	var req dto.CreateEntitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	inputs := make([]graphmem.EntityInput, 0, len(req.Entities))
	for _, e := range req.Entities {
		inputs = append(inputs, graphmem.EntityInput{
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: e.Observations,
		})
	}
	result, err := h.store.CreateEntities(inputs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteEntities handles DELETE /api/v1/entities
func (h *GraphHandler) DeleteEntities(c *gin.Context) {
	var req dto.EntityNamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.DeleteEntities(req.Names)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddObservations handles POST /api/v1/observations
func (h *GraphHandler) AddObservations(c *gin.Context) {
	var req dto.ObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	results := make([]*types.AddObservationsResult, 0, len(req.Updates))
	for _, u := range req.Updates {
		result, err := h.store.AddObservations(u.EntityName, u.Observations)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results = append(results, result)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// DeleteObservations handles POST /api/v1/observations/delete
func (h *GraphHandler) DeleteObservations(c *gin.Context) {
	var req dto.ObservationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	results := make([]*types.DeleteObservationsResult, 0, len(req.Updates))
	for _, u := range req.Updates {
		result, err := h.store.DeleteObservations(u.EntityName, u.Observations)
		if err != nil {
			abortWithError(c, err)
			return
		}
		results = append(results, result)
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// OpenNodes handles POST /api/v1/entities/open
func (h *GraphHandler) OpenNodes(c *gin.Context) {
	var req dto.EntityNamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	sub, err := h.store.OpenNodes(req.Names)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateRelations handles POST /api/v1/relations
func (h *GraphHandler) CreateRelations(c *gin.Context) {
	var req dto.RelationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.CreateRelations(relationInputs(req.Relations))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteRelations handles DELETE /api/v1/relations
func (h *GraphHandler) DeleteRelations(c *gin.Context) {
	var req dto.RelationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.DeleteRelations(relationInputs(req.Relations))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func relationInputs(payloads []dto.RelationPayload) []graphmem.RelationInput {
	inputs := make([]graphmem.RelationInput, 0, len(payloads))
	for _, r := range payloads {
		inputs = append(inputs, graphmem.RelationInput{
			From:         r.From,
			To:           r.To,
			RelationType: r.RelationType,
		})
	}
	return inputs
}

// MergeEntities handles POST /api/v1/merge
func (h *GraphHandler) MergeEntities(c *gin.Context) {
	var req dto.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.MergeEntities(req.Source, req.Target, req.DryRun)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search handles GET /api/v1/search?q=...
func (h *GraphHandler) Search(c *gin.Context) {
	result, err := h.store.SearchNodes(c.Query("q"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AdvancedSearch handles POST /api/v1/search/advanced
func (h *GraphHandler) AdvancedSearch(c *gin.Context) {
	var req dto.AdvancedSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.AdvancedSearch(search.Filters{
		EntityType:      req.EntityType,
		RelationType:    req.RelationType,
		MinObservations: req.MinObservations,
		MaxRelations:    req.MaxRelations,
		NamePattern:     req.NamePattern,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Statistics handles GET /api/v1/stats
func (h *GraphHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GetStatistics())
}

// Report handles GET /api/v1/report
func (h *GraphHandler) Report(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.GenerateReport())
}

// FindPaths handles POST /api/v1/paths
func (h *GraphHandler) FindPaths(c *gin.Context) {
	var req dto.FindPathsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		abortBadRequest(c, err)
		return
	}

	paths, err := h.store.FindPaths(req.Source, req.Target, req.MaxLength)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"paths": paths, "count": len(paths)})
}

// Clusters handles GET /api/v1/clusters
func (h *GraphHandler) Clusters(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.DetectClusters())
}

// Suggestions handles GET /api/v1/suggestions
func (h *GraphHandler) Suggestions(c *gin.Context) {
	suggestions := h.store.SuggestRelations()
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "count": len(suggestions)})
}

// Export handles GET /api/v1/export/:format
func (h *GraphHandler) Export(c *gin.Context) {
	result, err := h.store.ExportGraph(c.Param("format"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	files := make(map[string]string, len(result.Files))
	for name, data := range result.Files {
		files[name] = string(data)
	}
	c.JSON(http.StatusOK, gin.H{"format": result.Format, "files": files})
}

// Backup handles POST /api/v1/admin/backup
func (h *GraphHandler) Backup(c *gin.Context) {
	info, err := h.store.BackupGraph()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListBackups handles GET /api/v1/admin/backups
func (h *GraphHandler) ListBackups(c *gin.Context) {
	backups, err := h.store.ListBackups()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": backups, "count": len(backups)})
}

// Restore handles POST /api/v1/admin/restore
func (h *GraphHandler) Restore(c *gin.Context) {
	var req dto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, err)
		return
	}

	result, err := h.store.RestoreGraph(req.BackupFile)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
