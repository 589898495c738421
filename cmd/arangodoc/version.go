package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var versionCmd = &cobra.Command{
	Use:              "version",
	Short:            "Print the version number of arangodoc",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "arangodoc version %s\n", strings.TrimSpace(arangodoc.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
