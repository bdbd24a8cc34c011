package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/invoices-tracker/constants"
	"github.com/joseph-ayodele/invoices-tracker/internal/common"
	"github.com/joseph-ayodele/invoices-tracker/internal/core"
	"github.com/joseph-ayodele/invoices-tracker/internal/export"
	"github.com/joseph-ayodele/invoices-tracker/internal/ingest"
	"github.com/joseph-ayodele/invoices-tracker/internal/repository"
	"github.com/joseph-ayodele/invoices-tracker/internal/validation"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		inmem   = flag.Bool("inmem", false, "use in-memory SQLite database")
		dir     = flag.String("dir", "", "directory of recognized-text files to process (required)")
		out     = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		vendors = flag.String("vendors", "", "vendor master JSON (optional, overrides VENDOR_MASTER_PATH)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "invoices.xlsx")
	}

	cfg := common.LoadConfig()
	logger := common.NewLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if *inmem {
		cfg.Database.Driver = common.DriverSQLite
		cfg.Database.DSN = ":memory:"
	}
	if *vendors != "" {
		cfg.Validation.VendorMasterPath = *vendors
	}

	ctx := context.Background()

	db, err := repository.Open(ctx, repository.ConfigFrom(cfg.Database), logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)
	if err := repository.Migrate(ctx, db, logger); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	vendorList, err := validation.LoadVendorList(cfg.Validation.VendorMasterPath, logger)
	if err != nil {
		logger.Error("failed to load vendor master", "error", err)
		os.Exit(1)
	}

	repo := repository.NewInvoiceRepository(db, logger)
	processor := core.NewProcessor(logger, nil, nil, validation.NewValidator(vendorList, logger), repo)

	paths, stats, err := ingest.ScanDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete", "scanned", stats.Scanned, "matched", stats.Matched, "failed", stats.Failed)

	counts := map[constants.JobStatus]int{}
	failures := 0
	for _, p := range paths {
		outcome, err := processor.ProcessFile(ctx, p)
		if err != nil {
			logger.Error("failed to process file", "path", p, "error", err)
			failures++
			continue
		}
		counts[outcome.JobStatus()]++
		if !outcome.Valid {
			logger.Warn("invoice needs review", "path", p, "errors", outcome.Errors)
		}
	}

	xlsxBytes, err := export.NewService(repo, logger).ExportInvoicesXLSX(ctx, repository.ListFilter{})
	if err != nil {
		logger.Error("failed to export invoices", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files", len(paths),
		"stored", counts[constants.JobStatusStored],
		"review", counts[constants.JobStatusReview],
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files matched: %d\n", len(paths))
	fmt.Printf("- Stored: %d\n", counts[constants.JobStatusStored])
	fmt.Printf("- Needs review: %d\n", counts[constants.JobStatusReview])
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
