package cmdlets

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/exporter"
)

var (
	exportCmd = &cobra.Command{
		Use:   "export <notebook>",
		Short: "export a single notebook to a browser bundle",
		Args:  cobra.ExactArgs(1),
		Run:   exportCmdRun,
	}

	exportOutDir string
	exportMode   string
)

func init() {
	exportCmd.Flags().StringVarP(&exportOutDir, "out", "o", ".", "output directory for the bundle")
	exportCmd.Flags().StringVar(&exportMode, "mode", "edit", "bundle interaction mode (edit or run)")
	rootCmd.AddCommand(exportCmd)
}

func exportCmdRun(c *cobra.Command, args []string) {
	initLogger("export")

	e := exporter.New(
		exporter.WithLogger(appLogger),
		exporter.WithMode(exportMode),
	)

	if err := e.CheckTool(); err != nil {
		appLogger.Error("Export tool unavailable", "error", err)
		os.Exit(1)
	}

	res := e.Export(args[0], exportOutDir)
	if !res.OK {
		appLogger.Error("Export failed", "notebook", args[0], "diagnostic", res.Diagnostic)
		os.Exit(1)
	}
	appLogger.Info("Exported notebook", "bundle", res.OutputFile)
}
