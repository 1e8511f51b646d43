package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// Server exposes the idea pipeline as MCP tools over stdio so internal
// agents can file and submit ideas without going through the HTTP API.
type Server struct {
	structurer ports.IdeaStructurer
	submitter  ports.IdeaSubmitter
	catalog    *domain.Catalog
}

func NewServer(structurer ports.IdeaStructurer, submitter ports.IdeaSubmitter, catalog *domain.Catalog) *Server {
	return &Server{
		structurer: structurer,
		submitter:  submitter,
		catalog:    catalog,
	}
}

func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("tellcmg", version)

	srv.AddTool(mcp.NewTool("structure_idea",
		mcp.WithDescription("Turns a raw idea transcript into a structured CMG idea submission document."),
		mcp.WithString("transcript", mcp.Required(), mcp.Description("The raw idea text")),
		mcp.WithString("categories", mcp.Description("Comma-separated category ids, e.g. doc-mgmt,sla")),
		mcp.WithString("context", mcp.Description("Additional business context")),
	), s.structureHandler)

	srv.AddTool(mcp.NewTool("submit_idea",
		mcp.WithDescription("Mails a finished idea submission document to the IT Product intake inbox."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The finished markdown submission")),
		mcp.WithString("categories", mcp.Description("Comma-separated category ids")),
		mcp.WithString("submitter_email", mcp.Description("Reply-to address of the submitter")),
	), s.submitHandler)

	srv.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Lists the idea categories with their descriptions, grouped by area."),
	), s.listCategoriesHandler)

	return srv
}

// Serve blocks on the stdio transport.
func (s *Server) Serve(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func (s *Server) structureHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	transcript, _ := args["transcript"].(string)
	categoriesArg, _ := args["categories"].(string)
	contextInfo, _ := args["context"].(string)

	document, err := s.structurer.Structure(ctx, domain.IdeaDraft{
		RawText:    transcript,
		Categories: splitList(categoriesArg),
		Context:    contextInfo,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("structuring failed: %v", err)), nil
	}
	return mcp.NewToolResultText(document), nil
}

func (s *Server) submitHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments"), nil
	}
	document, _ := args["document"].(string)
	categoriesArg, _ := args["categories"].(string)
	submitterEmail, _ := args["submitter_email"].(string)

	if err := s.submitter.Submit(ctx, document, splitList(categoriesArg), submitterEmail); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("submission failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Idea submitted successfully."), nil
}

func (s *Server) listCategoriesHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type categoryInfo struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}

	categories := s.catalog.Categories()
	out := make([]categoryInfo, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryInfo{
			ID:          c.ID,
			Label:       s.catalog.LabelOf(c.ID),
			Description: c.Description,
			Group:       string(c.Group),
		})
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode categories: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
