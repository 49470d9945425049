package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/STARIONGROUP/COMET-BatchEditor-Community-Edition"

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0-dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the batchedit version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "batchedit v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
