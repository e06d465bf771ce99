// Command extract runs a single bill extraction without starting the server
// and prints the JSON result.
// Usage: go run ./cmd/extract [-xlsx out.xlsx] <document-url>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"medbill/internal/app"
	"medbill/internal/config"
	"medbill/internal/xlsxexport"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := flag.String("xlsx", "", "also write the result as an XLSX workbook to this path")
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("usage: extract [-xlsx out.xlsx] <document-url>")
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pipeline, err := app.NewPipeline(cfg)
	if err != nil {
		return err
	}

	result, err := pipeline.Extract(context.Background(), flag.Arg(0))
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if *xlsxPath != "" {
		f, err := os.Create(*xlsxPath)
		if err != nil {
			return fmt.Errorf("create xlsx file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := xlsxexport.Write(f, result); err != nil {
			return err
		}
		log.Printf("Wrote %s", *xlsxPath)
	}
	return nil
}
