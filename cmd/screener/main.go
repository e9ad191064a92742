// Command screener runs the consistency engine over a directory of merged
// client dossiers, rewriting each file with its verdict and printing batch
// audit statistics.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"dossier/internal/audit"
	"dossier/internal/batch"
	"dossier/internal/platform/config"
	"dossier/internal/platform/logger"
	"dossier/internal/refdata"
	"dossier/internal/screening"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "", "directory containing merged client JSON files")
	flag.Parse()

	log := logger.New()

	if dir == "" {
		log.Error("missing required -dir flag")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	auditStore := audit.NewInMemoryStore()
	service := screening.New(refdata.Static(),
		screening.WithLogger(log),
		screening.WithAuditPublisher(audit.NewPublisher(auditStore)),
	)

	runner := batch.New(service,
		batch.WithLogger(log),
		batch.WithWorkers(cfg.BatchWorkers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := runner.Run(ctx, dir)
	if err != nil {
		log.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	log.Info("static analysis completed",
		"dir", dir,
		"processed", stats.Processed,
		"rejected", stats.Rejected,
		"malformed", stats.Malformed,
		"false_negatives", stats.FalseNegatives,
		"false_negative_explanations", stats.FalseNegativeExplanations(),
	)
}
