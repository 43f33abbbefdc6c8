package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/config"
	"github.com/susilcse/PAM-AI-Rule-Engine/internal/rulestore"
)

var cleanupMaxAgeDays int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove stale rule snapshots",
	Long:  `Deletes rule snapshot files older than the configured age. The named original and edited rule sets are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		maxAgeDays := cfg.Cleanup.MaxAgeDays
		if cmd.Flags().Changed("max-age-days") {
			maxAgeDays = cleanupMaxAgeDays
		}

		rules, err := rulestore.New(filepath.Join(cfg.DataDir, "rules"))
		if err != nil {
			return fmt.Errorf("creating rule store: %w", err)
		}

		removed, err := rules.Cleanup(time.Duration(maxAgeDays)*24*time.Hour, cfg.Cleanup.Patterns)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d stale snapshot(s)\n", removed)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupMaxAgeDays, "max-age-days", 30, "delete snapshots older than this many days")
	rootCmd.AddCommand(cleanupCmd)
}
