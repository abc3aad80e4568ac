package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const usageGuidelines = `# GraphForge MCP server

Edits one callable graph document for its host editor.

- Address nodes by id, numeric handle, object name, or display title.
- Address pins by id or as "node:pin". Sub-pins of a split struct pin use
  the "Parent_Member" form; connect_pins splits the parent on demand.
- Mutating tools reply with {"success": ..., "data": ..., "error": ...}.
  A failed command leaves the document untouched.
- Signature edits report recompile_needed; call recompile once after a
  batch of structural changes, not per edit.
`

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "graphforge://usage-guidelines",
		Name:        "Usage Guidelines",
		Description: "How to address graphs, nodes, and pins through the tools",
		MIMEType:    "text/markdown",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      "graphforge://usage-guidelines",
					MIMEType: "text/markdown",
					Text:     usageGuidelines,
				},
			},
		}, nil
	})

	schemaMap := buildSchemaMap()

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "graphforge://schemas/{tool_name}",
		Name:        "Tool Schema",
		Description: "JSON schema for the named tool's arguments",
		MIMEType:    "application/schema+json",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		toolName := strings.TrimPrefix(uri, "graphforge://schemas/")
		schemaJSON, ok := schemaMap[toolName]
		if !ok {
			return nil, fmt.Errorf("unknown tool schema: %q", toolName)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{
				{
					URI:      uri,
					MIMEType: "application/schema+json",
					Text:     schemaJSON,
				},
			},
		}, nil
	})
}

// buildSchemaMap renders each tool's argument schema once at startup.
func buildSchemaMap() map[string]string {
	m := make(map[string]string)
	addSchema[DescribeGraphArgs](m, "describe_graph")
	addSchema[ListNodesArgs](m, "list_nodes")
	addSchema[DescribeNodeArgs](m, "describe_node")
	addSchema[AddNodeArgs](m, "add_node")
	addSchema[DeleteNodeArgs](m, "delete_node")
	addSchema[MoveNodeArgs](m, "move_node")
	addSchema[CreateGraphArgs](m, "create_graph")
	addSchema[DeleteGraphArgs](m, "delete_graph")
	addSchema[ConnectPinsArgs](m, "connect_pins")
	addSchema[DisconnectPinsArgs](m, "disconnect_pins")
	addSchema[SplitPinsArgs](m, "split_pins")
	addSchema[RecombinePinsArgs](m, "recombine_pins")
	addSchema[ManageParameterArgs](m, "manage_parameter")
	addSchema[ManageLocalArgs](m, "manage_local")
	addSchema[RecompileArgs](m, "recompile")
	return m
}

func addSchema[T any](m map[string]string, name string) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return
	}
	schemaJSON, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return
	}
	m[name] = string(schemaJSON)
}
