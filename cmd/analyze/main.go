package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"refwatch/adapters/excel"
	"refwatch/app"
	"refwatch/ingest"
	"refwatch/internal/config"
	"refwatch/internal/report"
	"refwatch/internal/testkit"
	"refwatch/ports"
)

// analyze runs the detection pipeline over one or more synthetic seasons and
// prints the text report for each. Report files are written when REPORT_TEXT
// or REPORT_XLSX are set.
func main() {
	_ = godotenv.Load()

	seasons := flag.Int("seasons", 1, "number of synthetic seasons to analyze")
	workers := flag.Int("workers", 4, "max seasons analyzed concurrently")
	seed := flag.Int64("seed", 42, "generator seed for the first season")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var writers []ports.ReportWriter
	if cfg.Report.TextPath != "" {
		writers = append(writers, report.NewTextWriter(cfg.Report.TextPath))
	}
	if cfg.Report.ExcelPath != "" {
		writers = append(writers, excel.NewReportWriter(cfg.Report.ExcelPath))
	}

	service := app.NewAnalysisService(cfg.Analysis, nil, nil, writers...)
	runner := app.NewBatchRunner(service, *workers)

	inputs := make([]ingest.RawSeason, 0, *seasons)
	for i := 0; i < *seasons; i++ {
		genCfg := testkit.DefaultGeneratorConfig()
		genCfg.SeasonID = fmt.Sprintf("%s-%d", genCfg.SeasonID, i+1)
		genCfg.Seed = *seed + int64(i)
		inputs = append(inputs, testkit.NewSeasonGenerator(genCfg).Generate())
	}

	results, err := runner.RunAll(context.Background(), inputs)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}

	for _, season := range inputs {
		result := results[season.SeasonID]
		fmt.Fprintln(os.Stdout, report.Render(result.Manifest, result.Baseline, result.SortedProfiles()))
	}
}
