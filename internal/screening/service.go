package screening

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"dossier/internal/audit"
	"dossier/internal/dossier/models"
	"dossier/internal/refdata"
	"dossier/internal/screening/metrics"
)

// Result is the persisted outcome of one evaluation.
type Result struct {
	ClientID    string
	Accepted    bool
	Explanation string
	IssueCount  int
	EvaluatedAt time.Time
}

// Store persists screening results for audit queries. Swap with concrete
// storage without touching the service.
type Store interface {
	Save(ctx context.Context, result Result) error
}

// AuditPublisher emits one event per evaluated dossier.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the rule catalog against a dossier and aggregates the issues
// into a verdict. The verdict is a pure function of the dossier's fields;
// persistence and audit are best-effort side channels.
type Service struct {
	rules   []Rule
	lookup  refdata.Lookup
	now     func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   Store
	auditor AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

// WithClock overrides the wall clock used by forward-looking rules. Tests use
// this to pin "now"; the age-floor instant is fixed regardless.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service over the full rule catalog.
func New(lookup refdata.Lookup, opts ...Option) *Service {
	s := &Service{
		rules:  Catalog(),
		lookup: lookup,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs every rule in catalog order, annotates the record with the
// resulting verdict, and returns it. Re-evaluating an annotated record
// overwrites the verdict idempotently.
func (s *Service) Evaluate(ctx context.Context, clientID string, rec *models.Record) models.Verdict {
	start := time.Now()
	env := Env{Lookup: s.lookup, Now: s.now}

	var messages []string
	issueCount := 0
	for _, rule := range s.rules {
		for _, issue := range rule.Check(rec, env) {
			messages = append(messages, issue.Message)
			issueCount++
			s.metrics.IncrementIssue(issue.Rule)
		}
	}

	verdict := models.Verdict{
		Accepted:    issueCount == 0,
		Explanation: strings.Join(messages, "; "),
	}
	rec.Annotate(verdict)

	s.metrics.IncrementVerdict(verdict.Accepted)
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	if s.store != nil {
		result := Result{
			ClientID:    clientID,
			Accepted:    verdict.Accepted,
			Explanation: verdict.Explanation,
			IssueCount:  issueCount,
			EvaluatedAt: s.now(),
		}
		if err := s.store.Save(ctx, result); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to persist screening result",
				"client_id", clientID,
				"error", err,
			)
		}
	}

	if s.auditor != nil {
		event := audit.Event{
			ClientID:    clientID,
			Accepted:    verdict.Accepted,
			Explanation: verdict.Explanation,
			IssueCount:  issueCount,
		}
		if err := s.auditor.Emit(ctx, event); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event",
				"client_id", clientID,
				"error", err,
			)
		}
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "dossier evaluated",
			"client_id", clientID,
			"accepted", verdict.Accepted,
			"issues", issueCount,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return verdict
}
