package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"time"

	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/extract"
	"github.com/joseph-ayodele/invoices-tracker/internal/validation"
)

// extract runs field extraction and validation on one recognized-text file
// ("-" reads stdin) and prints the outcome as JSON. Nothing is stored.
func main() {
	var (
		vendors    = flag.String("vendors", "", "vendor master JSON (optional, overrides VENDOR_MASTER_PATH)")
		confidence = flag.Float64("confidence", -1, "overall recognition confidence 0..1 for stdin input")
		level      = flag.String("log-level", "warn", "log level")
	)
	flag.Parse()

	logger := common.NewLogger(os.Stderr, *level, "text")

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "extract [--vendors path] <file.txt|->")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if *vendors != "" {
		cfg.Validation.VendorMasterPath = *vendors
	}
	vendorList, err := validation.LoadVendorList(cfg.Validation.VendorMasterPath, logger)
	if err != nil {
		logger.Error("failed to load vendor master", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	processor := core.NewProcessor(logger, nil, nil, validation.NewValidator(vendorList, logger), nil)

	var outcome core.Outcome
	if path := flag.Arg(0); path == "-" {
		b, err := io.ReadAll(io.LimitReader(os.Stdin, 1<<20))
		if err != nil {
			logger.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		src := extract.TextSource{Text: string(b), OverallConfidence: extract.HeuristicConfidence(string(b))}
		if *confidence >= 0 {
			src.OverallConfidence = float32(*confidence)
		}
		outcome, err = processor.Process(ctx, src)
		if err != nil {
			logger.Error("failed to process stdin", "error", err)
			os.Exit(1)
		}
	} else {
		outcome, err = processor.ProcessFile(ctx, path)
		if err != nil {
			logger.Error("failed to process file", "path", path, "error", err)
			os.Exit(1)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		logger.Error("failed to encode outcome", "error", err)
		os.Exit(1)
	}
	if !outcome.Valid {
		os.Exit(3)
	}
}
