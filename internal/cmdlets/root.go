// Package cmdlets contains the main entrypoints of the various
// functions that the marimo-embed tool can perform.
package cmdlets

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "marimo-embed",
		Short: "Entrypoint for all marimo-embed commands",
		Long:  rootCmdLongDocs,
	}
	rootCmdLongDocs = `marimo-embed converts marimo notebooks into browser-runnable bundles and wires them into a documentation site: exported iframes for directly embedded notebooks, and launcher buttons for gallery-generated example pages.`

	appLogger = hclog.NewNullLogger()
)

// Entrypoint is the entrypoint into all cmdlets, it will dispatch to
// the right one.
func Entrypoint() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func initLogger(name string) {
	ll := os.Getenv("LOG_LEVEL")
	if ll == "" {
		ll = "INFO"
	}
	appLogger = hclog.New(&hclog.LoggerOptions{
		Name:  name,
		Level: hclog.LevelFromString(ll),
	})
}

// loadConfig tries the explicit path first, then conventional
// filenames in the working directory, and falls back to the
// documented defaults when no file exists.
func loadConfig(path string) *config.Config {
	candidates := []string{path, "marimo-embed.json", "marimo-embed.yml", "marimo-embed.yaml"}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		c, err := config.Load(p)
		if err != nil {
			appLogger.Error("Could not parse config", "path", p, "error", err)
			os.Exit(1)
		}
		appLogger.Info("Loaded configuration", "path", p)
		return c
	}
	return config.Default()
}
