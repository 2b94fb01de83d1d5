package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tempidentity %s (commit %s, built %s, %s/%s)\n",
				buildVersion, buildCommit, buildDate, runtime.GOOS, runtime.GOARCH)
		},
	}
}
