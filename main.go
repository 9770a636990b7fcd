package main

import (
	"github.com/marimo-docs/embedder/internal/cmdlets"
)

func main() {
	cmdlets.Entrypoint()
}
