package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/audit"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/config"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
	mcpserver "github.com/susilcse/PAM-AI-Rule-Engine/internal/mcp"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing contract rule tools for AI agents like Claude Code.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		rules, err := rulestore.New(filepath.Join(cfg.DataDir, "rules"))
		if err != nil {
			return fmt.Errorf("creating rule store: %w", err)
		}

		// The audit database is optional here: tool calls still work
		// without it, they are just not recorded.
		var auditStore *audit.Store
		database, err := db.Open(filepath.Join(cfg.DataDir, "pamrules.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: audit database unavailable: %v\n", err)
		} else {
			defer database.Close()
			auditStore = audit.NewStore(database)
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "pamrules MCP server started on stdio (rules=%s)\n", filepath.Join(cfg.DataDir, "rules"))

		srv := mcpserver.NewServer(rules, auditStore)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
