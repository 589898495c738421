package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/arangodoc"
)

var (
	createFile          string
	createKey           string
	createOverwriteMode string
	createOverwrite     bool
	createReturnNew     bool
	createReturnOld     bool
	createSilent        bool
	createWaitForSync   bool
)

var createCmd = &cobra.Command{
	Use:   "create <collection> [json]",
	Short: "Create a document",
	Long: `Create a document from the inline JSON argument, --file, or stdin.
Without --key (or a _key in the document) the server assigns the key.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := arangodoc.ParseOverwriteMode(createOverwriteMode)
		if err != nil {
			return err
		}

		payload, err := readPayload(cmd.InOrStdin(), args[1:], createFile)
		if err != nil {
			return err
		}

		coll, err := openCollection(args[0])
		if err != nil {
			return err
		}

		doc := arangodoc.NewDocumentWithKey(createKey, payload)
		resp, err := coll.Create(cmd.Context(), doc, arangodoc.InsertOptions{
			WaitForSync:   createWaitForSync,
			ReturnNew:     createReturnNew,
			ReturnOld:     createReturnOld,
			Silent:        createSilent,
			Overwrite:     createOverwrite,
			OverwriteMode: mode,
		})
		if err != nil {
			return err
		}
		return printResult[map[string]any](cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Read the document from a file (- for stdin)")
	createCmd.Flags().StringVarP(&createKey, "key", "k", "", "Document key")
	createCmd.Flags().StringVar(&createOverwriteMode, "overwrite-mode", "", "On key collision: conflict, ignore, replace or update")
	createCmd.Flags().BoolVar(&createOverwrite, "overwrite", false, "Replace an existing document with the same key")
	createCmd.Flags().BoolVar(&createReturnNew, "return-new", false, "Print the stored document")
	createCmd.Flags().BoolVar(&createReturnOld, "return-old", false, "Print the overwritten document")
	createCmd.Flags().BoolVar(&createSilent, "silent", false, "Print nothing")
	createCmd.Flags().BoolVar(&createWaitForSync, "wait-for-sync", false, "Wait until the write is on disk")
}
