package client

import (
	"github.com/spf13/cobra"
)

// NewRoot constructs a root Cobra command for the coinlog client.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "coinlog",
		Short: "coinlog client commands",
	}
	root.AddCommand(NewPlayerCommand())
	root.AddCommand(NewScoresCommand())
	return root
}
