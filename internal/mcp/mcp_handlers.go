package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/gradepoint/core"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/huangsam/gradepoint/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	eng     *core.Engine
}

// scopeFromRequest builds an evaluation scope the same way the CLI scope flags do.
func scopeFromRequest(request mcp.CallToolRequest) (schema.Scope, error) {
	input := &contract.ConfigRawInput{
		Syllabus:  int64(request.GetInt("syllabus", 0)),
		Project:   int64(request.GetInt("project", 0)),
		User:      request.GetString("user", ""),
		Group:     int64(request.GetInt("group", 0)),
		Milestone: request.GetString("milestone", ""),
	}
	return contract.BuildScope(input)
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := scopeFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scope: %v", err)), nil
	}
	area, cluster, err := contract.ParseListingFilters(request.GetString("area", ""), request.GetString("cluster", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err)), nil
	}

	m, err := h.eng.ModelFor(ctx, s)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model lookup failed: %v", err)), nil
	}
	return jsonResult(core.DescribeVariables(m, area, cluster))
}

func (h *toolHandler) handleGetVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alias := strings.TrimSpace(request.GetString("alias", ""))
	if alias == "" {
		return mcp.NewToolResultError("alias is required"), nil
	}
	s, err := scopeFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scope: %v", err)), nil
	}

	m, err := h.eng.ModelFor(ctx, s)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model lookup failed: %v", err)), nil
	}
	value, err := core.Evaluate(ctx, m, alias, s)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	return jsonResult(value)
}

func (h *toolHandler) handleListConstants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := scopeFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scope: %v", err)), nil
	}
	m, err := h.eng.ModelFor(ctx, s)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model lookup failed: %v", err)), nil
	}
	return jsonResult(core.DescribeConstants(m))
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := int64(request.GetInt("project", 0))
	if projectID <= 0 {
		return mcp.NewToolResultError("project must be a positive project ID"), nil
	}
	workers := h.baseCfg.Workers
	if w := request.GetInt("workers", 0); w > 0 {
		workers = w
	}

	m, err := h.eng.ModelFor(ctx, schema.Scope{}.Project(projectID))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("model lookup failed: %v", err)), nil
	}
	report, err := core.BuildReport(ctx, m, projectID, workers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return jsonResult(report)
}

func (h *toolHandler) handleClearCache(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := h.eng.ClearCache()
	return mcp.NewToolResultText(fmt.Sprintf("cleared %d cached models", n)), nil
}
