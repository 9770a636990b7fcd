package cmdlets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"github.com/marimo-docs/embedder/pkg/preview"
)

var (
	previewCmd = &cobra.Command{
		Use:   "preview",
		Short: "preview serves a built site locally with livereload",
		Run:   previewCmdRun,
	}

	previewDir  string
	previewBind string
	previewQR   bool
)

func init() {
	previewCmd.Flags().StringVarP(&previewDir, "dir", "d", "_build/html", "built site directory")
	previewCmd.Flags().StringVarP(&previewBind, "bind", "b", ":8080", "address to serve on")
	previewCmd.Flags().BoolVar(&previewQR, "qr", false, "print a QR code for the preview URL")
	rootCmd.AddCommand(previewCmd)
}

func previewCmdRun(c *cobra.Command, args []string) {
	initLogger("preview")

	s := preview.New(
		preview.WithLogger(appLogger),
		preview.WithDir(previewDir),
	)

	go func() {
		if err := s.Serve(previewBind); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "Error binding preview server, do you already have something running?\n%s\n", err)
			os.Exit(1)
		}
	}()

	url := "http://localhost" + previewBind
	fmt.Printf("Preview available at %s\n", url)
	if previewQR {
		qrterminal.GenerateWithConfig(url, qrterminal.Config{
			Level:     qrterminal.L,
			Writer:    os.Stdout,
			BlackChar: qrterminal.BLACK,
			WhiteChar: qrterminal.WHITE,
			QuietZone: 1,
		})
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	fmt.Println("Goodbye!")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Shutdown(ctx)
}
