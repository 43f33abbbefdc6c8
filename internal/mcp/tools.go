package mcp

import "github.com/mark3labs/mcp-go/mcp"

// listContractsTool defines the list_contracts MCP tool.
var listContractsTool = mcp.NewTool("list_contracts",
	mcp.WithDescription("List the contracts that have extracted rules available."),
)

// getRulesTool defines the get_rules MCP tool.
var getRulesTool = mcp.NewTool("get_rules",
	mcp.WithDescription("Get the current token-based rules for a contract, as JSON."),
	mcp.WithString("contract_id",
		mcp.Required(),
		mcp.Description("Contract identifier"),
	),
	mcp.WithString("variant",
		mcp.Description("Which rule set to return (default current: edited if present, else original)"),
		mcp.Enum("current", "original", "edited"),
	),
)

// calculateRevenueTool defines the calculate_revenue MCP tool.
var calculateRevenueTool = mcp.NewTool("calculate_revenue",
	mcp.WithDescription("Run a contract's rules over revenue records and return the per-record distribution and totals. Uses the bundled sample records when none are supplied."),
	mcp.WithString("contract_id",
		mcp.Required(),
		mcp.Description("Contract identifier"),
	),
	mcp.WithString("records",
		mcp.Description(`JSON array of records: [{"id","contentType","mediaType","grossRevenue"}]`),
	),
)

// modifyRulesTool defines the modify_rules MCP tool.
var modifyRulesTool = mcp.NewTool("modify_rules",
	mcp.WithDescription("Apply rule modifications (update, create, delete, copy) to a contract and persist the edited rule set."),
	mcp.WithString("contract_id",
		mcp.Required(),
		mcp.Description("Contract identifier"),
	),
	mcp.WithString("modifications",
		mcp.Required(),
		mcp.Description("JSON array of modification objects"),
	),
)
