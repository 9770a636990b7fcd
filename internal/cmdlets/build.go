package cmdlets

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/builder"
)

var (
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "build exports all notebooks and processes a documentation site",
		Long:  buildCmdLongDocs,
		Run:   buildCmdRun,
	}

	buildCmdLongDocs = `build runs the full pipeline: notebooks under the configured notebook directory are exported to browser bundles, the manifest and client assets are written, embed directives in source pages are rewritten, and gallery-generated pages are converted and annotated for launcher buttons.`

	buildSrcDir string
	buildOutDir string
	buildConfig string
)

func init() {
	buildCmd.Flags().StringVarP(&buildSrcDir, "source", "s", ".", "site source directory")
	buildCmd.Flags().StringVarP(&buildOutDir, "output", "o", "_build/html", "site output directory")
	buildCmd.Flags().StringVarP(&buildConfig, "config", "c", "", "configuration file")
	rootCmd.AddCommand(buildCmd)
}

func buildCmdRun(c *cobra.Command, args []string) {
	initLogger("build")
	cfg := loadConfig(buildConfig)

	b, err := builder.New(
		builder.WithLogger(appLogger),
		builder.WithConfig(cfg),
		builder.WithSourceDir(buildSrcDir),
		builder.WithOutputDir(buildOutDir),
	)
	if err != nil {
		appLogger.Error("Could not initialize builder", "error", err)
		os.Exit(1)
	}

	if err := b.Run(); err != nil {
		appLogger.Error("Build failed", "error", err)
		os.Exit(1)
	}

	ok := 0
	for _, r := range b.Results() {
		if r.OK {
			ok++
		}
	}
	appLogger.Info("Build complete", "exported", ok, "attempted", len(b.Results()))
}
