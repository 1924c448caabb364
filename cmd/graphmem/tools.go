package graphmem

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/search"
)

// mcpTools binds the store to the tool handlers.
type mcpTools struct {
	store *graphmem.Store
}

func registerTools(s *server.MCPServer, store *graphmem.Store) {
	t := &mcpTools{store: store}

	s.AddTool(createEntitiesTool(), t.handleCreateEntities)
	s.AddTool(createRelationsTool(), t.handleCreateRelations)
	s.AddTool(addObservationsTool(), t.handleAddObservations)
	s.AddTool(deleteEntitiesTool(), t.handleDeleteEntities)
	s.AddTool(deleteObservationsTool(), t.handleDeleteObservations)
	s.AddTool(deleteRelationsTool(), t.handleDeleteRelations)
	s.AddTool(readGraphTool(), t.handleReadGraph)
	s.AddTool(searchNodesTool(), t.handleSearchNodes)
	s.AddTool(openNodesTool(), t.handleOpenNodes)
	s.AddTool(advancedSearchTool(), t.handleAdvancedSearch)
	s.AddTool(getStatisticsTool(), t.handleGetStatistics)
	s.AddTool(generateReportTool(), t.handleGenerateReport)
	s.AddTool(findPathsTool(), t.handleFindPaths)
	s.AddTool(detectClustersTool(), t.handleDetectClusters)
	s.AddTool(suggestRelationsTool(), t.handleSuggestRelations)
	s.AddTool(mergeEntitiesTool(), t.handleMergeEntities)
	s.AddTool(exportGraphTool(), t.handleExportGraph)
	s.AddTool(backupGraphTool(), t.handleBackupGraph)
	s.AddTool(listBackupsTool(), t.handleListBackups)
	s.AddTool(restoreGraphTool(), t.handleRestoreGraph)
}

// decodeArg re-marshals one argument into a typed value.
func decodeArg(args map[string]any, key string, out any) error {
	raw, ok := args[key]
	if !ok || raw == nil {
		return fmt.Errorf("%s is required", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid %s: %v", key, err)
	}
	return nil
}

func toolArgs(req mcp.CallToolRequest) map[string]any {
	args, _ := req.Params.Arguments.(map[string]any)
	return args
}

// toolResultJSON renders any result value as pretty JSON text.
func toolResultJSON(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func createEntitiesTool() mcp.Tool {
	return mcp.NewTool("create_entities",
		mcp.WithDescription("Create multiple new entities in the knowledge graph. Each entity has a name, an entityType, and an optional list of observations. Existing names are reported as failures without touching the rest of the batch."),
		mcp.WithArray("entities",
			mcp.Required(),
			mcp.Description("Array of {name, entityType, observations} objects"),
		),
	)
}

func (t *mcpTools) handleCreateEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var inputs []graphmem.EntityInput
	if err := decodeArg(toolArgs(req), "entities", &inputs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.store.CreateEntities(inputs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func createRelationsTool() mcp.Tool {
	return mcp.NewTool("create_relations",
		mcp.WithDescription("Create multiple new typed relations between existing entities. Relations are directed; duplicates are skipped, relations naming absent entities fail individually."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Array of {from, to, relationType} objects"),
		),
	)
}

func (t *mcpTools) handleCreateRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var inputs []graphmem.RelationInput
	if err := decodeArg(toolArgs(req), "relations", &inputs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.store.CreateRelations(inputs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

// observationUpdate matches the wire shape used by MCP memory clients.
type observationUpdate struct {
	EntityName   string   `json:"entityName"`
	Contents     []string `json:"contents"`
	Observations []string `json:"observations"`
}

func (u observationUpdate) observations() []string {
	if len(u.Contents) > 0 {
		return u.Contents
	}
	return u.Observations
}

func addObservationsTool() mcp.Tool {
	return mcp.NewTool("add_observations",
		mcp.WithDescription("Add new observations to existing entities. Blank and already-present observations are skipped."),
		mcp.WithArray("observations",
			mcp.Required(),
			mcp.Description("Array of {entityName, contents} objects, contents being the observations to add"),
		),
	)
}

func (t *mcpTools) handleAddObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var updates []observationUpdate
	if err := decodeArg(toolArgs(req), "observations", &updates); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := make([]any, 0, len(updates))
	for _, u := range updates {
		result, err := t.store.AddObservations(u.EntityName, u.observations())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results = append(results, result)
	}
	return toolResultJSON(results)
}

func deleteEntitiesTool() mcp.Tool {
	return mcp.NewTool("delete_entities",
		mcp.WithDescription("Delete multiple entities and all relations touching them. Unknown names are reported and skipped."),
		mcp.WithArray("entityNames",
			mcp.Required(),
			mcp.Description("Array of entity names to delete"),
		),
	)
}

func (t *mcpTools) handleDeleteEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var names []string
	if err := decodeArg(toolArgs(req), "entityNames", &names); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.store.DeleteEntities(names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func deleteObservationsTool() mcp.Tool {
	return mcp.NewTool("delete_observations",
		mcp.WithDescription("Delete specific observations from entities. Observations not present are reported without error."),
		mcp.WithArray("deletions",
			mcp.Required(),
			mcp.Description("Array of {entityName, observations} objects"),
		),
	)
}

func (t *mcpTools) handleDeleteObservations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var updates []observationUpdate
	if err := decodeArg(toolArgs(req), "deletions", &updates); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := make([]any, 0, len(updates))
	for _, u := range updates {
		result, err := t.store.DeleteObservations(u.EntityName, u.observations())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		results = append(results, result)
	}
	return toolResultJSON(results)
}

func deleteRelationsTool() mcp.Tool {
	return mcp.NewTool("delete_relations",
		mcp.WithDescription("Delete multiple relations from the graph. Relations that do not exist are reported and skipped."),
		mcp.WithArray("relations",
			mcp.Required(),
			mcp.Description("Array of {from, to, relationType} objects"),
		),
	)
}

func (t *mcpTools) handleDeleteRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var inputs []graphmem.RelationInput
	if err := decodeArg(toolArgs(req), "relations", &inputs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := t.store.DeleteRelations(inputs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func readGraphTool() mcp.Tool {
	return mcp.NewTool("read_graph",
		mcp.WithDescription("Read the entire knowledge graph: all entities with their observations and all relations."),
	)
}

func (t *mcpTools) handleReadGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResultJSON(t.store.ReadGraph())
}

func searchNodesTool() mcp.Tool {
	return mcp.NewTool("search_nodes",
		mcp.WithDescription("Search for entities whose name, type, or observations contain the query (case-insensitive). Results are ranked by match count and include relations among the matches."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match against entity names, types, and observations"),
		),
	)
}

func (t *mcpTools) handleSearchNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, _ := toolArgs(req)["query"].(string)
	result, err := t.store.SearchNodes(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func openNodesTool() mcp.Tool {
	return mcp.NewTool("open_nodes",
		mcp.WithDescription("Open specific entities by name, returning them together with the relations among them. Unknown names are silently omitted."),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Array of entity names to open"),
		),
	)
}

func (t *mcpTools) handleOpenNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var names []string
	if err := decodeArg(toolArgs(req), "names", &names); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := t.store.OpenNodes(names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(sub)
}

func advancedSearchTool() mcp.Tool {
	return mcp.NewTool("advanced_search",
		mcp.WithDescription("Filter entities by type, relation type, observation count bounds, and a case-insensitive name regular expression. All given filters must match."),
		mcp.WithString("entity_type", mcp.Description("Exact entity type to match")),
		mcp.WithString("relation_type", mcp.Description("Keep entities participating in at least one relation of this type")),
		mcp.WithNumber("min_observations", mcp.Description("Minimum observation count")),
		mcp.WithNumber("max_relations", mcp.Description("Maximum relation count (degree)")),
		mcp.WithString("name_pattern", mcp.Description("Case-insensitive regular expression for entity names")),
	)
}

func (t *mcpTools) handleAdvancedSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(req)
	filters := search.Filters{}
	if v, ok := args["entity_type"].(string); ok {
		filters.EntityType = v
	}
	if v, ok := args["relation_type"].(string); ok {
		filters.RelationType = v
	}
	if v, ok := args["min_observations"].(float64); ok {
		n := int(v)
		filters.MinObservations = &n
	}
	if v, ok := args["max_relations"].(float64); ok {
		n := int(v)
		filters.MaxRelations = &n
	}
	if v, ok := args["name_pattern"].(string); ok {
		filters.NamePattern = v
	}

	result, err := t.store.AdvancedSearch(filters)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func getStatisticsTool() mcp.Tool {
	return mcp.NewTool("get_statistics",
		mcp.WithDescription("Summarize the graph: entity and relation counts, type breakdowns, mean observations, most connected entities, isolated entity count, and density."),
	)
}

func (t *mcpTools) handleGetStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResultJSON(t.store.GetStatistics())
}

func generateReportTool() mcp.Tool {
	return mcp.NewTool("generate_report",
		mcp.WithDescription("Generate a health report: statistics plus orphaned entities, underused relation types, entities without observations, and recommendations."),
	)
}

func (t *mcpTools) handleGenerateReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResultJSON(t.store.GenerateReport())
}

func findPathsTool() mcp.Tool {
	return mcp.NewTool("find_paths",
		mcp.WithDescription("Enumerate simple directed paths between two entities up to a maximum length, shortest first."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Start entity name")),
		mcp.WithString("target", mcp.Required(), mcp.Description("End entity name")),
		mcp.WithNumber("max_length", mcp.Description("Maximum number of hops (default 3)")),
	)
}

func (t *mcpTools) handleFindPaths(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(req)
	source, _ := args["source"].(string)
	target, _ := args["target"].(string)
	maxLength := 3
	if v, ok := args["max_length"].(float64); ok {
		maxLength = int(v)
	}

	paths, err := t.store.FindPaths(source, target, maxLength)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(map[string]any{"paths": paths, "count": len(paths)})
}

func detectClustersTool() mcp.Tool {
	return mcp.NewTool("detect_clusters",
		mcp.WithDescription("Partition entities into communities by modularity over the undirected relation structure. Every entity lands in exactly one group."),
	)
}

func (t *mcpTools) handleDetectClusters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResultJSON(t.store.DetectClusters())
}

func suggestRelationsTool() mcp.Tool {
	return mcp.NewTool("suggest_relations",
		mcp.WithDescription("Suggest entity pairs that are not yet related but share neighbors or observation vocabulary, ranked by score."),
	)
}

func (t *mcpTools) handleSuggestRelations(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	suggestions := t.store.SuggestRelations()
	return toolResultJSON(map[string]any{"suggestions": suggestions, "count": len(suggestions)})
}

func mergeEntitiesTool() mcp.Tool {
	return mcp.NewTool("merge_entities",
		mcp.WithDescription("Merge a source entity into a target entity: observations are unioned, relations remapped, and the source removed. Set dry_run to preview the outcome without changing the graph."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Entity to merge away")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Entity that absorbs the source")),
		mcp.WithBoolean("dry_run", mcp.Description("Preview the merge without applying it")),
	)
}

func (t *mcpTools) handleMergeEntities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := toolArgs(req)
	source, _ := args["source"].(string)
	target, _ := args["target"].(string)
	dryRun, _ := args["dry_run"].(bool)

	result, err := t.store.MergeEntities(source, target, dryRun)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}

func exportGraphTool() mcp.Tool {
	return mcp.NewTool("export_graph",
		mcp.WithDescription("Export the graph as json, csv, graphml, yaml, or parquet. Text formats are returned inline; parquet files are reported by name and size."),
		mcp.WithString("format", mcp.Description("Export format: json (default), csv, graphml, yaml, or parquet")),
	)
}

func (t *mcpTools) handleExportGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, _ := toolArgs(req)["format"].(string)
	if format == "" {
		format = "json"
	}
	result, err := t.store.ExportGraph(format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Format == "parquet" {
		sizes := map[string]int{}
		for name, data := range result.Files {
			sizes[name] = len(data)
		}
		return toolResultJSON(map[string]any{"format": result.Format, "files": sizes})
	}

	out := ""
	for name, data := range result.Files {
		if out != "" {
			out += "\n"
		}
		out += fmt.Sprintf("--- %s ---\n%s", name, data)
	}
	return mcp.NewToolResultText(out), nil
}

func backupGraphTool() mcp.Tool {
	return mcp.NewTool("backup_graph",
		mcp.WithDescription("Write a timestamped backup of the current graph next to the graph file. Old backups beyond the retention limit are pruned."),
	)
}

func (t *mcpTools) handleBackupGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := t.store.BackupGraph()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(info)
}

func listBackupsTool() mcp.Tool {
	return mcp.NewTool("list_backups",
		mcp.WithDescription("List available graph backups, oldest first."),
	)
}

func (t *mcpTools) handleListBackups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	backups, err := t.store.ListBackups()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(map[string]any{"backups": backups, "count": len(backups)})
}

func restoreGraphTool() mcp.Tool {
	return mcp.NewTool("restore_graph",
		mcp.WithDescription("Restore the graph from a backup file. Without a backup_file the most recent backup is used. A safety snapshot of the current state is written first."),
		mcp.WithString("backup_file", mcp.Description("Backup file name as reported by list_backups")),
	)
}

func (t *mcpTools) handleRestoreGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	backupFile, _ := toolArgs(req)["backup_file"].(string)
	result, err := t.store.RestoreGraph(backupFile)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolResultJSON(result)
}
