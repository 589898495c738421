package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	replaceFile        string
	replaceIfMatch     string
	replaceCheckRev    bool
	replaceReturnNew   bool
	replaceReturnOld   bool
	replaceSilent      bool
	replaceWaitForSync bool
)

var replaceCmd = &cobra.Command{
	Use:   "replace <collection> <key> [json]",
	Short: "Replace a document",
	Long: `Overwrite the stored document. With --if-match the write only happens
while the stored revision is unchanged.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(cmd.InOrStdin(), args[2:], replaceFile)
		if err != nil {
			return err
		}

		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		opts := arangodoc.ReplaceOptions{
			WaitForSync: replaceWaitForSync,
			ReturnNew:   replaceReturnNew,
			ReturnOld:   replaceReturnOld,
			Silent:      replaceSilent,
		}
		if replaceCheckRev {
			opts.IgnoreRevs = arangodoc.ToggleOff
		}

		resp, err := coll.Replace(cmd.Context(), args[1], arangodoc.NewDocument(payload), opts, replaceIfMatch)
		if err != nil {
			return err
		}
		return printResult[map[string]any](cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(replaceCmd)
	replaceCmd.Flags().StringVarP(&replaceFile, "file", "f", "", "Read the document from a file (- for stdin)")
	replaceCmd.Flags().StringVar(&replaceIfMatch, "if-match", "", "Replace only while the stored revision equals this one")
	replaceCmd.Flags().BoolVar(&replaceCheckRev, "check-rev", false, "Require a _rev in the document to match")
	replaceCmd.Flags().BoolVar(&replaceReturnNew, "return-new", false, "Print the new document")
	replaceCmd.Flags().BoolVar(&replaceReturnOld, "return-old", false, "Print the previous document")
	replaceCmd.Flags().BoolVar(&replaceSilent, "silent", false, "Print nothing")
	replaceCmd.Flags().BoolVar(&replaceWaitForSync, "wait-for-sync", false, "Wait until the write is on disk")
}
