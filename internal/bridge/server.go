package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bfrobot/internal/keyword"
	"bfrobot/pkg/logging"
)

// Server exposes the discovered keywords over the MCP protocol so AI
// assistants and external tooling can inspect and drive the testbed
// through the same dispatch path the test framework uses.
type Server struct {
	router    *keyword.Router
	mcpServer *server.MCPServer
}

// NewServer builds an MCP server over a keyword router. Every discovered
// keyword becomes one tool; three meta tools cover listing, inspection,
// and dispatch by name.
func NewServer(router *keyword.Router, version string) *Server {
	mcpServer := server.NewMCPServer(
		"bfrobot",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		router:    router,
		mcpServer: mcpServer,
	}
	s.registerMetaTools()
	s.registerKeywordTools()
	return s
}

// Start serves MCP over stdio and blocks until the peer disconnects.
func (s *Server) Start(ctx context.Context) error {
	logging.Info("Bridge", "Serving keywords over MCP stdio")
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerMetaTools() {
	listKeywordsTool := mcp.NewTool("list_keywords",
		mcp.WithDescription("List all discovered keywords with their argument specifications"),
	)
	s.mcpServer.AddTool(listKeywordsTool, s.handleListKeywords)

	describeKeywordTool := mcp.NewTool("describe_keyword",
		mcp.WithDescription("Get documentation, arguments, tags, and source location of a keyword"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the keyword to describe"),
		),
	)
	s.mcpServer.AddTool(describeKeywordTool, s.handleDescribeKeyword)

	runKeywordTool := mcp.NewTool("run_keyword",
		mcp.WithDescription("Run a keyword by name with positional and named arguments"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the keyword to run"),
		),
		mcp.WithArray("args",
			mcp.Description("Positional arguments"),
		),
		mcp.WithObject("kwargs",
			mcp.Description("Named arguments"),
		),
	)
	s.mcpServer.AddTool(runKeywordTool, s.handleRunKeyword)
}

// registerKeywordTools registers one tool per discovered keyword, with an
// input schema derived from the keyword's argument specification.
func (s *Server) registerKeywordTools() {
	for _, name := range s.router.Names() {
		args, err := s.router.Arguments(name)
		if err != nil {
			continue
		}
		s.mcpServer.AddTool(s.toolFor(name, args), s.keywordHandler(name, args))
	}
}

// toolFor converts one keyword into an MCP tool declaration.
func (s *Server) toolFor(name string, args []string) mcp.Tool {
	doc, _ := s.router.Documentation(name)
	types, _ := s.router.Types(name)

	options := []mcp.ToolOption{mcp.WithDescription(doc)}
	for _, arg := range args {
		switch arg {
		case "*args":
			options = append(options, mcp.WithArray("args",
				mcp.Description("Additional positional arguments"),
			))
		case "**kwargs":
			options = append(options, mcp.WithObject("kwargs",
				mcp.Description("Named arguments"),
			))
		default:
			description := "Positional argument"
			if hint, ok := types[arg]; ok {
				description = fmt.Sprintf("Positional argument (%s)", hint)
			}
			options = append(options, mcp.WithString(arg,
				mcp.Required(),
				mcp.Description(description),
			))
		}
	}

	return mcp.NewTool(ToolName(name), options...)
}

// keywordHandler builds the dispatch handler for one keyword tool. Named
// schema parameters are collected back into the positional argument list
// in declaration order.
func (s *Server) keywordHandler(name string, argSpec []string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		arguments := request.GetArguments()

		var args []interface{}
		var kwargs map[string]interface{}
		for _, arg := range argSpec {
			switch arg {
			case "*args":
				extra, ok := arguments["args"].([]interface{})
				if arguments["args"] != nil && !ok {
					return mcp.NewToolResultError("args must be an array"), nil
				}
				args = append(args, extra...)
			case "**kwargs":
				raw, ok := arguments["kwargs"].(map[string]interface{})
				if arguments["kwargs"] != nil && !ok {
					return mcp.NewToolResultError("kwargs must be a JSON object"), nil
				}
				kwargs = raw
			default:
				value, ok := arguments[arg]
				if !ok {
					return mcp.NewToolResultError(fmt.Sprintf("%s argument is required", arg)), nil
				}
				args = append(args, value)
			}
		}

		result, err := s.router.RunKeyword(ctx, name, args, kwargs)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Keyword execution failed: %v", err)), nil
		}
		return resultText(result), nil
	}
}

func (s *Server) handleListKeywords(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type keywordInfo struct {
		Name string   `json:"name"`
		Args []string `json:"args"`
		Tags []string `json:"tags,omitempty"`
	}

	var keywords []keywordInfo
	for _, name := range s.router.Names() {
		args, err := s.router.Arguments(name)
		if err != nil {
			continue
		}
		tags, _ := s.router.Tags(name)
		keywords = append(keywords, keywordInfo{Name: name, Args: args, Tags: tags})
	}

	jsonData, err := json.MarshalIndent(keywords, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format keywords: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleDescribeKeyword(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	doc, err := s.router.Documentation(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Keyword not found: %s", name)), nil
	}
	args, _ := s.router.Arguments(name)
	tags, _ := s.router.Tags(name)
	types, _ := s.router.Types(name)
	source, _ := s.router.SourceLocation(name)

	info := map[string]interface{}{
		"name":          name,
		"documentation": doc,
		"arguments":     args,
	}
	if len(tags) > 0 {
		info["tags"] = tags
	}
	if len(types) > 0 {
		info["types"] = types
	}
	if source != "" {
		info["source"] = source
	}

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format keyword info: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (s *Server) handleRunKeyword(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	var args []interface{}
	if raw := request.GetArguments()["args"]; raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return mcp.NewToolResultError("args must be an array"), nil
		}
		args = list
	}

	var kwargs map[string]interface{}
	if raw := request.GetArguments()["kwargs"]; raw != nil {
		object, ok := raw.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("kwargs must be a JSON object"), nil
		}
		kwargs = object
	}

	result, err := s.router.RunKeyword(ctx, name, args, kwargs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Keyword execution failed: %v", err)), nil
	}
	return resultText(result), nil
}

// resultText renders a keyword result for the MCP response.
func resultText(result interface{}) *mcp.CallToolResult {
	switch v := result.(type) {
	case nil:
		return mcp.NewToolResultText("OK")
	case string:
		return mcp.NewToolResultText(v)
	default:
		jsonData, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return mcp.NewToolResultText(fmt.Sprintf("%v", v))
		}
		return mcp.NewToolResultText(string(jsonData))
	}
}

// ToolName renders a keyword name as an MCP tool identifier: lowercase
// with underscores ("Dm Nbi GPV" becomes "dm_nbi_gpv").
func ToolName(keywordName string) string {
	return strings.ReplaceAll(keyword.NormalizeName(keywordName), " ", "_")
}
