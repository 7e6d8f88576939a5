// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gradepoint/core"
	"github.com/huangsam/gradepoint/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scopeOptions are the arguments every scoped tool accepts.
func scopeOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("syllabus", mcp.Description("Syllabus ID.")),
		mcp.WithNumber("project", mcp.Description("Project ID.")),
		mcp.WithString("user", mcp.Description("Username; needs a project, group or syllabus.")),
		mcp.WithNumber("group", mcp.Description("Student group ID.")),
		mcp.WithString("milestone", mcp.Description("Milestone name for milestone clustered variables.")),
	}
}

// NewMCPServer initializes and configures the gradepoint MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, eng *core.Engine, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Gradepoint Evaluation Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		eng:     eng,
	}

	// --- 1. Tool: list_variables ---
	listVarsOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List the evaluation variables of the model serving a syllabus, project or group."),
		mcp.WithString("area", mcp.Description("Only variables supporting this area."), mcp.Enum("user", "project", "group", "syllabus")),
		mcp.WithString("cluster", mcp.Description("Only variables supporting this cluster."), mcp.Enum("none", "milestone")),
	}, scopeOptions()...)
	s.AddTool(mcp.NewTool("list_variables", listVarsOpts...), h.handleListVariables)

	// --- 2. Tool: get_variable ---
	getVarOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Evaluate one variable over a scope. Incomplete data is reported as pending, not as an error."),
		mcp.WithString("alias", mcp.Description("Variable alias, e.g. final_rating."), mcp.Required()),
	}, scopeOptions()...)
	s.AddTool(mcp.NewTool("get_variable", getVarOpts...), h.handleGetVariable)

	// --- 3. Tool: list_constants ---
	listConstsOpts := append([]mcp.ToolOption{
		mcp.WithDescription("List the constants of the model serving a syllabus, project or group, with effective values."),
	}, scopeOptions()...)
	s.AddTool(mcp.NewTool("list_constants", listConstsOpts...), h.handleListConstants)

	// --- 4. Tool: get_report ---
	s.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Rate every developer of a project: individual, project and final ratings."),
		mcp.WithNumber("project", mcp.Description("Project ID."), mcp.Required()),
		mcp.WithNumber("workers", mcp.Description("Members rated concurrently.")),
	), h.handleGetReport)

	// --- 5. Tool: clear_cache ---
	s.AddTool(mcp.NewTool("clear_cache",
		mcp.WithDescription("Drop every cached evaluation model so constants and package selections are reloaded."),
	), h.handleClearCache)

	return s
}

// StartMCPServer starts the gradepoint MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, eng *core.Engine, version string) error {
	s := NewMCPServer(baseCfg, eng, version)
	return server.ServeStdio(s)
}
