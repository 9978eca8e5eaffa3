package cli

import (
	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Health(cmd.Context())
			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			if result.Status != "" {
				out.Print(result)
			}
			return err
		},
	}
}
