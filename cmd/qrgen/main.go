// Command qrgen is a terminal client for the QR code service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cristianadrielbraun/qrstudio/internal/backend"
	"github.com/cristianadrielbraun/qrstudio/internal/config"
	"github.com/cristianadrielbraun/qrstudio/internal/studio"
	"github.com/cristianadrielbraun/qrstudio/internal/tui"
)

func main() {
	savePath := flag.String("o", "qrcode.png", "file the current frame is saved to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// The terminal belongs to the UI; logs go to a file or nowhere.
	if path := os.Getenv("QRGEN_LOG"); path != "" {
		f, err := tea.LogToFile(path, "qrgen")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client := backend.NewClient(cfg.Client.BackendURL, nil)
	prog := tui.NewProgram(*savePath)
	submitter := studio.NewSubmitter(client, prog)
	defer submitter.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for action := range prog.Actions() {
			switch a := action.(type) {
			case tui.ActionGenerate:
				// Submit blocks until the cycle ends; the form stays responsive.
				go func() {
					if err := submitter.Submit(ctx, a.Fields); err != nil {
						log.Printf("[QR] generation: %v", err)
					}
				}()
			case tui.ActionAnimation:
				submitter.SetAnimation(a.Enabled)
			}
		}
	}()

	log.Printf("[QR] backend=%s", cfg.Client.BackendURL)
	if err := prog.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "qrgen: %v\n", err)
		os.Exit(1)
	}
}
