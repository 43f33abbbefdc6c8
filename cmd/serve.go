package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/config"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/db"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/llm"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rule engine API server",
	Long:  `Starts the pamrules server with the contract analysis, chat, calculation, and audit REST APIs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		provider, err := createProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		rules, err := rulestore.New(filepath.Join(cfg.DataDir, "rules"))
		if err != nil {
			return fmt.Errorf("creating rule store: %w", err)
		}

		// Prune stale snapshots on startup.
		if cfg.Cleanup.MaxAgeDays > 0 {
			maxAge := time.Duration(cfg.Cleanup.MaxAgeDays) * 24 * time.Hour
			if removed, err := rules.Cleanup(maxAge, cfg.Cleanup.Patterns); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: snapshot cleanup: %v\n", err)
			} else if removed > 0 && verbose {
				fmt.Fprintf(os.Stderr, "Removed %d stale snapshot(s)\n", removed)
			}
		}

		dbPath := filepath.Join(cfg.DataDir, "pamrules.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		srv := server.New(server.Config{
			Port:        cfg.Port,
			DataDir:     cfg.DataDir,
			AllowAll:    cfg.AllowAllOrigins,
			ChatTimeout: time.Duration(cfg.ChatTimeoutSecs) * time.Second,
		}, database, rules, provider, cfg.Model)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "pamrules server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Rules: %s\n", filepath.Join(cfg.DataDir, "rules"))
		fmt.Fprintf(os.Stderr, "  Model: %s\n", cfg.Model)

		return srv.Start()
	},
}

// createProviderFromConfig builds the configured LLM provider.
func createProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(cfg.Provider))
		if apiKey == "" {
			return nil, fmt.Errorf("%s is not set", config.APIKeyEnvVar(cfg.Provider))
		}
		return llm.NewOpenAIProvider(apiKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
