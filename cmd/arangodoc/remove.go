package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	removeIfMatch     string
	removeReturnOld   bool
	removeSilent      bool
	removeWaitForSync bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <collection> <key>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a document",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		resp, err := coll.Remove(cmd.Context(), args[1], arangodoc.RemoveOptions{
			WaitForSync: removeWaitForSync,
			ReturnOld:   removeReturnOld,
			Silent:      removeSilent,
		}, removeIfMatch)
		if err != nil {
			return err
		}
		return printResult[map[string]any](cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.Flags().StringVar(&removeIfMatch, "if-match", "", "Remove only while the stored revision equals this one")
	removeCmd.Flags().BoolVar(&removeReturnOld, "return-old", false, "Print the removed document")
	removeCmd.Flags().BoolVar(&removeSilent, "silent", false, "Print nothing")
	removeCmd.Flags().BoolVar(&removeWaitForSync, "wait-for-sync", false, "Wait until the removal is on disk")
}
