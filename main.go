package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"refwatch/adapters/excel"
	"refwatch/adapters/postgres"
	"refwatch/api"
	"refwatch/app"
	"refwatch/internal"
	"refwatch/internal/config"
	"refwatch/internal/errors"
	"refwatch/internal/report"
	"refwatch/internal/testkit"
	"refwatch/ports"
)

// initDatabase connects to PostgreSQL and ensures the schema exists.
// An empty DATABASE_URL is not an error: persistence is optional.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := postgres.Migrate(db); err != nil {
		return nil, errors.Wrap(err, "schema migration failed")
	}
	return db, nil
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := internal.DefaultLogger.WithPrefix("main")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}
	if db != nil {
		defer db.Close()
		logger.Info("persistence enabled")
	} else {
		logger.Info("no DATABASE_URL set, running in-memory")
	}

	var snapshots ports.SnapshotRepository
	var profiles ports.ProfileRepository
	if db != nil {
		snapshots = postgres.NewSnapshotRepository(db)
		profiles = postgres.NewProfileRepository(db)
	}

	var writers []ports.ReportWriter
	if cfg.Report.TextPath != "" {
		writers = append(writers, report.NewTextWriter(cfg.Report.TextPath))
	}
	if cfg.Report.ExcelPath != "" {
		writers = append(writers, excel.NewReportWriter(cfg.Report.ExcelPath))
	}

	service := app.NewAnalysisService(cfg.Analysis, snapshots, profiles, writers...)

	// With no external data source configured the server demonstrates the
	// pipeline on a seeded synthetic season.
	generator := testkit.NewSeasonGenerator(testkit.DefaultGeneratorConfig())
	result, err := service.Run(context.Background(), generator.Generate())
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}
	logger.Info("initial run %s ready (%d referees)", result.RunID, len(result.Profiles))

	server := api.NewServer(result)
	if err := server.ListenAndServe(cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
