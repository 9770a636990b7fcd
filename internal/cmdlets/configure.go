package cmdlets

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/config"
)

var (
	configureCmd = &cobra.Command{
		Use:   "configure",
		Short: "configure prompts for the common configuration values",
		Long:  configureCmdLongDocs,
		Run:   configureCmdRun,
	}

	configureCmdLongDocs = `configure prompts in a wizard style for the values most sites adjust and writes the resulting configuration file.  Anything not asked for keeps its documented default.`

	configureOut string
)

func init() {
	configureCmd.Flags().StringVarP(&configureOut, "out", "o", "marimo-embed.json", "where to write the configuration")
	rootCmd.AddCommand(configureCmd)
}

func configureCmdRun(c *cobra.Command, args []string) {
	cfg := config.Default()

	if err := cfg.WizardSurvey(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := cfg.Save(configureOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing settings file: %s\n", err.Error())
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", configureOut)
}
