package cmdlets

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/transform"
)

var (
	transformCmd = &cobra.Command{
		Use:   "transform <notebook>",
		Short: "transform rewrites a marimo notebook's cells",
		Long:  transformCmdLongDocs,
		Args:  cobra.ExactArgs(1),
		Run:   transformCmdRun,
	}

	transformCmdLongDocs = `transform applies the content rewrites the gallery pipeline uses to a notebook file: prepending a markdown cell and moving marimo import cells to the top.`

	transformPrepend string
	transformImports bool
	transformOut     string
)

func init() {
	transformCmd.Flags().StringVar(&transformPrepend, "prepend-markdown", "", "markdown to insert as the first cell")
	transformCmd.Flags().BoolVar(&transformImports, "move-imports-to-top", false, "reorder marimo import cells first")
	transformCmd.Flags().StringVarP(&transformOut, "out", "o", "", "output path (default: rewrite in place)")
	rootCmd.AddCommand(transformCmd)
}

func transformCmdRun(c *cobra.Command, args []string) {
	initLogger("transform")

	err := transform.File(args[0], transformOut, transform.Options{
		PrependMarkdown:  transformPrepend,
		MoveImportsToTop: transformImports,
	})
	if err != nil {
		appLogger.Error("Transform failed", "notebook", args[0], "error", err)
		os.Exit(1)
	}
}
