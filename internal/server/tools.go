package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vk/graphforge/internal/engine"
	"github.com/vk/graphforge/internal/signature"
)

// Arguments structs

type ScopeArgs struct {
	Scope   string `json:"scope,omitempty" jsonschema:"description:Graph scope: event (default) function or macro"`
	Graph   string `json:"graph,omitempty" jsonschema:"description:Graph name inside the scope; empty means the default event graph"`
	GraphID string `json:"graph_id,omitempty" jsonschema:"description:Graph id; overrides scope and name when set"`
}

func (a ScopeArgs) scope() engine.GraphScope {
	return engine.GraphScope{Scope: a.Scope, Name: a.Graph, GraphID: a.GraphID}
}

type DescribeGraphArgs struct {
	ScopeArgs
}

type ListNodesArgs struct {
	ScopeArgs
}

type DescribeNodeArgs struct {
	ScopeArgs
	Node string `json:"node" jsonschema:"required,description:Node id handle object name or display title"`
}

type AddNodeArgs struct {
	ScopeArgs
	Kind  string  `json:"kind" jsonschema:"required,description:Node kind: event function_entry function_result call variable_get variable_set macro or comment"`
	Title string  `json:"title" jsonschema:"required,description:Display title of the new node"`
	X     float64 `json:"x" jsonschema:"description:Canvas X position"`
	Y     float64 `json:"y" jsonschema:"description:Canvas Y position"`
}

type DeleteNodeArgs struct {
	ScopeArgs
	Node string `json:"node" jsonschema:"required,description:Node id handle object name or display title"`
}

type MoveNodeArgs struct {
	ScopeArgs
	Node string  `json:"node" jsonschema:"required,description:Node id handle object name or display title"`
	X    float64 `json:"x" jsonschema:"required,description:New canvas X position"`
	Y    float64 `json:"y" jsonschema:"required,description:New canvas Y position"`
}

type CreateGraphArgs struct {
	Kind string `json:"kind" jsonschema:"required,description:Graph kind: event function or macro"`
	Name string `json:"name" jsonschema:"required,description:Unique graph name"`
}

type DeleteGraphArgs struct {
	Name string `json:"name" jsonschema:"required,description:Name of the graph to delete"`
}

type ConnectPinsArgs struct {
	ScopeArgs
	Pairs []engine.PinPair `json:"pairs" jsonschema:"required,description:Source and target pin references; each side is a pin id or node:pin"`
}

type DisconnectPinsArgs struct {
	ScopeArgs
	Pairs []engine.PinPair `json:"pairs" jsonschema:"required,description:Edges to sever; an empty target breaks every edge on the source pin"`
}

type SplitPinsArgs struct {
	ScopeArgs
	Pins []string `json:"pins" jsonschema:"required,description:Struct pins to split into member sub-pins"`
}

type RecombinePinsArgs struct {
	ScopeArgs
	Pins []string `json:"pins" jsonschema:"required,description:Split pins to collapse back to their parents"`
}

type ManageParameterArgs struct {
	ScopeArgs
	Action    string  `json:"action" jsonschema:"required,description:One of add remove update or list"`
	Name      string  `json:"name,omitempty" jsonschema:"description:Parameter name"`
	Type      string  `json:"type,omitempty" jsonschema:"description:Type descriptor such as float or map<int,array<struct:Vector>>"`
	Direction string  `json:"direction,omitempty" jsonschema:"description:input (default) out or return"`
	NewName   *string `json:"new_name,omitempty" jsonschema:"description:Rename target (update only)"`
	NewType   *string `json:"new_type,omitempty" jsonschema:"description:Retype target (update only)"`
	Default   *string `json:"default,omitempty" jsonschema:"description:New default value rendered as a string (update only)"`
	Const     *bool   `json:"const,omitempty" jsonschema:"description:Const flag (update only)"`
	Reference *bool   `json:"reference,omitempty" jsonschema:"description:Pass-by-reference flag (update only)"`
	Editable  *bool   `json:"editable,omitempty" jsonschema:"description:Editable flag (update only)"`
}

type ManageLocalArgs struct {
	ScopeArgs
	Action    string  `json:"action" jsonschema:"required,description:One of add remove update or list"`
	Name      string  `json:"name,omitempty" jsonschema:"description:Local variable name"`
	Type      string  `json:"type,omitempty" jsonschema:"description:Type descriptor"`
	Default   string  `json:"default,omitempty" jsonschema:"description:Default value rendered as a string"`
	NewName   *string `json:"new_name,omitempty" jsonschema:"description:Rename target (update only)"`
	NewType   *string `json:"new_type,omitempty" jsonschema:"description:Retype target (update only)"`
	NewDef    *string `json:"new_default,omitempty" jsonschema:"description:New default value (update only)"`
	Const     *bool   `json:"const,omitempty" jsonschema:"description:Const flag (update only)"`
	Reference *bool   `json:"reference,omitempty" jsonschema:"description:Pass-by-reference flag (update only)"`
	Editable  *bool   `json:"editable,omitempty" jsonschema:"description:Editable flag (update only)"`
}

// update maps the tool arguments onto a signature update.
func (a ManageParameterArgs) update() signature.ParamUpdate {
	return signature.ParamUpdate{
		NewName:    a.NewName,
		NewType:    a.NewType,
		NewDefault: a.Default,
		Const:      a.Const,
		Reference:  a.Reference,
		Editable:   a.Editable,
	}
}

func (a ManageLocalArgs) update() signature.LocalUpdate {
	return signature.LocalUpdate{
		NewName:    a.NewName,
		NewType:    a.NewType,
		NewDefault: a.NewDef,
		Const:      a.Const,
		Reference:  a.Reference,
		Editable:   a.Editable,
	}
}

type RecompileArgs struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "describe_graph",
		Description: "Returns a graph with its nodes, pins, connections, and signature",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DescribeGraphArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.DescribeGraph(ctx, args.scope()))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_nodes",
		Description: "Lists every node in a graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListNodesArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.ListNodes(ctx, args.scope()))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "describe_node",
		Description: "Returns one node with its pins and connections",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DescribeNodeArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.DescribeNode(ctx, args.scope(), args.Node))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_node",
		Description: "Creates a node in a graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args AddNodeArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.AddNode(ctx, args.scope(), args.Kind, args.Title, args.X, args.Y))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_node",
		Description: "Deletes a node after severing all of its connections",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DeleteNodeArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.RemoveNode(ctx, args.scope(), args.Node))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "move_node",
		Description: "Repositions a node on the canvas",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args MoveNodeArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.MoveNode(ctx, args.scope(), args.Node, args.X, args.Y))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_graph",
		Description: "Adds a function, macro, or event graph to the document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args CreateGraphArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.CreateGraph(ctx, args.Kind, args.Name))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_graph",
		Description: "Removes a named graph from the document",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DeleteGraphArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.DeleteGraph(ctx, args.Name))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "connect_pins",
		Description: "Wires source pins to target pins; splittable struct members split on demand",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ConnectPinsArgs) (*mcp.CallToolResult, any, error) {
		if len(args.Pairs) == 0 {
			return errorResult("connect_pins needs at least one pair"), nil, nil
		}
		if len(args.Pairs) == 1 {
			p := args.Pairs[0]
			return resultContent(s.engine.Connect(ctx, args.scope(), p.Source, p.Target))
		}
		return resultContent(s.engine.ConnectBatch(ctx, args.scope(), args.Pairs))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "disconnect_pins",
		Description: "Severs edges; a pair with an empty target breaks every edge on the source pin",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args DisconnectPinsArgs) (*mcp.CallToolResult, any, error) {
		if len(args.Pairs) == 0 {
			return errorResult("disconnect_pins needs at least one pair"), nil, nil
		}
		return resultContent(s.engine.Disconnect(ctx, args.scope(), args.Pairs))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "split_pins",
		Description: "Splits struct pins into member sub-pins",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args SplitPinsArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.SplitPins(ctx, args.scope(), args.Pins))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recombine_pins",
		Description: "Collapses split pins back to their parents, restoring parked connections",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RecombinePinsArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.RecombinePins(ctx, args.scope(), args.Pins))
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "manage_parameter",
		Description: "Adds, removes, updates, or lists the parameters of a function graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ManageParameterArgs) (*mcp.CallToolResult, any, error) {
		scope := args.scope()
		switch args.Action {
		case "add":
			return resultContent(s.engine.AddParameter(ctx, scope, args.Name, args.Type, args.Direction))
		case "remove":
			return resultContent(s.engine.RemoveParameter(ctx, scope, args.Name, args.Direction))
		case "update":
			return resultContent(s.engine.UpdateParameter(ctx, scope, args.Name, args.Direction, args.update()))
		case "list":
			return resultContent(s.engine.DescribeSignature(ctx, scope))
		default:
			return errorResult("unknown action; use add, remove, update, or list"), nil, nil
		}
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "manage_local",
		Description: "Adds, removes, updates, or lists the local variables of a function graph",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ManageLocalArgs) (*mcp.CallToolResult, any, error) {
		scope := args.scope()
		switch args.Action {
		case "add":
			return resultContent(s.engine.AddLocal(ctx, scope, args.Name, args.Type, args.Default))
		case "remove":
			return resultContent(s.engine.RemoveLocal(ctx, scope, args.Name))
		case "update":
			return resultContent(s.engine.UpdateLocal(ctx, scope, args.Name, args.update()))
		case "list":
			return resultContent(s.engine.DescribeSignature(ctx, scope))
		default:
			return errorResult("unknown action; use add, remove, update, or list"), nil, nil
		}
	})

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "recompile",
		Description: "Asks the host to recompile the document after a batch of edits",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RecompileArgs) (*mcp.CallToolResult, any, error) {
		return resultContent(s.engine.Recompile(ctx))
	})
}
