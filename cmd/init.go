package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ashaai/asha-server/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize asha configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure providers and datasets and generates a .asha.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
