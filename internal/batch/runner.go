// Package batch screens a directory of merged client dossiers in parallel.
// Each record is owned end-to-end by one worker, so no locking is needed
// beyond the shared run statistics.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"dossier/internal/dossier/models"
)

// Evaluator is the engine surface the runner needs.
type Evaluator interface {
	Evaluate(ctx context.Context, clientID string, rec *models.Record) models.Verdict
}

// Stats summarizes one batch run. False negatives are dossiers the engine
// rejected although their ground-truth label says Accept; their distinct
// explanations point at over-eager rules.
type Stats struct {
	Processed      int
	Rejected       int
	Malformed      int
	FalseNegatives int

	falseNegativeExplanations map[string]struct{}
}

// FalseNegativeExplanations returns the distinct explanations of all false
// negatives, sorted for stable reporting.
func (s *Stats) FalseNegativeExplanations() []string {
	out := make([]string, 0, len(s.falseNegativeExplanations))
	for e := range s.falseNegativeExplanations {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Runner walks a directory of client JSON files, evaluates each dossier, and
// rewrites the file with the verdict attached.
type Runner struct {
	evaluator Evaluator
	logger    *slog.Logger
	workers   int
}

type Option func(r *Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithWorkers caps parallelism; values below 1 fall back to serial.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

func New(evaluator Evaluator, opts ...Option) *Runner {
	r := &Runner{evaluator: evaluator, workers: 1}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = 1
	}
	return r
}

// Run processes every *.json file in dir. A malformed record is logged and
// skipped; only a missing directory or a cancelled context aborts the run.
func (r *Runner) Run(ctx context.Context, dir string) (Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("read dossier directory: %w", err)
	}

	stats := Stats{falseNegativeExplanations: make(map[string]struct{})}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		clientID := strings.TrimSuffix(entry.Name(), ".json")

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			verdict, label, err := r.processFile(ctx, path, clientID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Malformed++
				if r.logger != nil {
					r.logger.ErrorContext(ctx, "skipping malformed dossier",
						"client_id", clientID,
						"error", err,
					)
				}
				return nil
			}
			stats.Processed++
			if !verdict.Accepted {
				stats.Rejected++
				if label == "Accept" {
					stats.FalseNegatives++
					stats.falseNegativeExplanations[verdict.Explanation] = struct{}{}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (r *Runner) processFile(ctx context.Context, path, clientID string) (models.Verdict, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Verdict{}, "", fmt.Errorf("read dossier: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.Verdict{}, "", fmt.Errorf("decode dossier: %w", err)
	}

	rec, err := models.Decode(raw)
	if err != nil {
		return models.Verdict{}, "", err
	}

	verdict := r.evaluator.Evaluate(ctx, clientID, rec)

	annotated, err := json.MarshalIndent(rec.Raw(), "", "    ")
	if err != nil {
		return models.Verdict{}, "", fmt.Errorf("encode annotated dossier: %w", err)
	}
	if err := os.WriteFile(path, annotated, 0o644); err != nil {
		return models.Verdict{}, "", fmt.Errorf("write annotated dossier: %w", err)
	}

	label := ""
	if rec.Label != nil {
		label = rec.Label.Value
	}
	return verdict, label, nil
}
