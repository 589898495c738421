package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	readHeaderOnly  bool
	readIfMatch     string
	readIfNoneMatch string
)

var readCmd = &cobra.Command{
	Use:   "read <collection> <key>",
	Short: "Read a document",
	Long: `Read a document by its key and print it as JSON.
With --header only _id, _key and _rev are printed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if readIfMatch != "" && readIfNoneMatch != "" {
			return fmt.Errorf("--if-match and --if-none-match are mutually exclusive")
		}

		var cond arangodoc.ReadOptions
		switch {
		case readIfMatch != "":
			cond = arangodoc.IfMatch(readIfMatch)
		case readIfNoneMatch != "":
			cond = arangodoc.IfNoneMatch(readIfNoneMatch)
		}

		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		if readHeaderOnly {
			h, err := coll.ReadHeader(cmd.Context(), args[1], cond)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), h)
		}

		doc, err := coll.Read(cmd.Context(), args[1], cond)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), doc)
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readHeaderOnly, "header", false, "Print only the system attributes")
	readCmd.Flags().StringVar(&readIfMatch, "if-match", "", "Fail unless the stored revision equals this one")
	readCmd.Flags().StringVar(&readIfNoneMatch, "if-none-match", "", "Fail with exit code 4 if the stored revision equals this one")
}
