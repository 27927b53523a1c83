package cmd

import (
	"github.com/hornkernel/chck/config"
	"github.com/spf13/cobra"
)

// RootCmd returns the root cobra command of the verifier tool.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chck",
		Short: "Verify constrained Horn clause safety problems reduced to a transition system",
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&config.ConfigPath, "config", "c", "", "Config file path")
	cmd.AddCommand(SolveCmd())
	return cmd
}
