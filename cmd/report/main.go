// Package main re-renders the report artifacts from data already on disk,
// without touching the chain. Useful after hand-editing the blacklist or
// tweaking report templates.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"evm-sniper-lab/internal/config"
	"evm-sniper-lab/internal/domain"
	"evm-sniper-lab/internal/liveness"
	"evm-sniper-lab/internal/reporting"
	"evm-sniper-lab/internal/storage"
	"evm-sniper-lab/internal/wealth"
)

func main() {
	dataDir := flag.String("data-dir", config.Default().DataDir, "Data directory")
	flag.Parse()

	dir, err := storage.NewDir(*dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Data dir error: %v\n", err)
		os.Exit(1)
	}

	var hits []domain.WalletHit
	if err := dir.ReadJSON(storage.LegendsFile, &hits); err != nil {
		fmt.Fprintf(os.Stderr, "Legends file error (run cmd/profile first): %v\n", err)
		os.Exit(1)
	}

	report := &reporting.Report{
		GeneratedAt:     time.Now().UTC(),
		WalletsAdmitted: len(hits),
		Hits:            hits,
	}

	var verified []wealth.VerifiedWallet
	if err := dir.ReadJSON(storage.VerifiedFile, &verified); err == nil {
		report.Verified = verified
	} else if !errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Verified file error: %v\n", err)
		os.Exit(1)
	}

	var activity []liveness.Activity
	if err := dir.ReadJSON(storage.ActiveFile, &activity); err == nil {
		report.Activity = activity
	} else if !errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintf(os.Stderr, "Activity file error: %v\n", err)
		os.Exit(1)
	}

	if err := dir.WriteFile(storage.ReportFile, []byte(reporting.RenderMarkdown(report))); err != nil {
		fmt.Fprintf(os.Stderr, "Report error: %v\n", err)
		os.Exit(1)
	}
	csvOut, err := reporting.RenderCSV(hits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}
	if err := dir.WriteFile(storage.LegendsCSV, []byte(csvOut)); err != nil {
		fmt.Fprintf(os.Stderr, "CSV error: %v\n", err)
		os.Exit(1)
	}

	reporting.PrintConsole(report)
	fmt.Printf("\nWrote %s and %s\n", dir.Path(storage.ReportFile), dir.Path(storage.LegendsCSV))
}
