package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	updateFile         string
	updateReturnNew    bool
	updateReturnOld    bool
	updateSilent       bool
	updateWaitForSync  bool
	updateCheckRev     bool
	updateKeepNull     bool
	updateMergeObjects bool
)

var updateCmd = &cobra.Command{
	Use:   "update <collection> <key> [json]",
	Short: "Merge a patch into a document",
	Long: `Merge a partial document into the stored one. Only the patch is sent.
With --check-rev a _rev inside the patch must match the stored revision.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch, err := readPayload(cmd.InOrStdin(), args[2:], updateFile)
		if err != nil {
			return err
		}

		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		opts := arangodoc.UpdateOptions{
			WaitForSync: updateWaitForSync,
			ReturnNew:   updateReturnNew,
			ReturnOld:   updateReturnOld,
			Silent:      updateSilent,
		}
		if updateCheckRev {
			opts.IgnoreRevs = arangodoc.ToggleOff
		}
		if cmd.Flags().Changed("keep-null") {
			opts.KeepNull = arangodoc.ToggleOf(updateKeepNull)
		}
		if cmd.Flags().Changed("merge-objects") {
			opts.MergeObjects = arangodoc.ToggleOf(updateMergeObjects)
		}

		resp, err := coll.Update(cmd.Context(), args[1], patch, opts)
		if err != nil {
			return err
		}
		return printResult[map[string]any](cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Read the patch from a file (- for stdin)")
	updateCmd.Flags().BoolVar(&updateReturnNew, "return-new", false, "Print the updated document")
	updateCmd.Flags().BoolVar(&updateReturnOld, "return-old", false, "Print the previous document")
	updateCmd.Flags().BoolVar(&updateSilent, "silent", false, "Print nothing")
	updateCmd.Flags().BoolVar(&updateWaitForSync, "wait-for-sync", false, "Wait until the write is on disk")
	updateCmd.Flags().BoolVar(&updateCheckRev, "check-rev", false, "Require a _rev in the patch to match")
	updateCmd.Flags().BoolVar(&updateKeepNull, "keep-null", true, "Store null values instead of removing the attributes")
	updateCmd.Flags().BoolVar(&updateMergeObjects, "merge-objects", true, "Merge nested objects instead of replacing them")
}
