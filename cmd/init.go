package cmd

import (
	"github.com/spf13/cobra"

	"github.com/susilcse/PAM-AI-Rule-Engine/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pamrules configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the rule engine and generates a .pamrules.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
