package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dossier/internal/refdata"
	"dossier/internal/screening"
)

type RunnerSuite struct {
	suite.Suite
	dir    string
	runner *Runner
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.dir = s.T().TempDir()
	service := screening.New(refdata.Static(),
		screening.WithClock(func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }),
	)
	s.runner = New(service, WithWorkers(4))
}

func (s *RunnerSuite) writeFile(name, payload string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(payload), 0o644))
	return path
}

func (s *RunnerSuite) readAnnotation(path string) map[string]any {
	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	var raw map[string]any
	s.Require().NoError(json.Unmarshal(data, &raw))
	score, _ := raw["internal_score"].(map[string]any)
	return score
}

func (s *RunnerSuite) TestAnnotatesEveryDossier() {
	clean := s.writeFile("client_0.json", `{}`)
	dirty := s.writeFile("client_1.json", `{"client_profile": {"currency": "JPY"}}`)
	s.writeFile("notes.txt", "ignored")

	stats, err := s.runner.Run(context.Background(), s.dir)
	s.Require().NoError(err)

	s.Equal(2, stats.Processed)
	s.Equal(1, stats.Rejected)
	s.Zero(stats.Malformed)
	s.Zero(stats.FalseNegatives)

	s.Equal(true, s.readAnnotation(clean)["preprocessing"])
	score := s.readAnnotation(dirty)
	s.Equal(false, score["preprocessing"])
	s.Contains(score["explanation"], "Currency JPY is not accepted")
}

func (s *RunnerSuite) TestMalformedRecordDoesNotAbortBatch() {
	s.writeFile("client_0.json", `not json at all`)
	ok := s.writeFile("client_1.json", `{}`)

	stats, err := s.runner.Run(context.Background(), s.dir)
	s.Require().NoError(err)

	s.Equal(1, stats.Processed)
	s.Equal(1, stats.Malformed)
	s.Equal(true, s.readAnnotation(ok)["preprocessing"])
}

func (s *RunnerSuite) TestFalseNegativeTracking() {
	s.writeFile("client_0.json", `{
		"client_profile": {"currency": "JPY"},
		"label": {"label": "Accept"}
	}`)
	s.writeFile("client_1.json", `{
		"client_profile": {"currency": "JPY"},
		"label": {"label": "Reject"}
	}`)

	stats, err := s.runner.Run(context.Background(), s.dir)
	s.Require().NoError(err)

	s.Equal(2, stats.Rejected)
	s.Equal(1, stats.FalseNegatives)
	explanations := stats.FalseNegativeExplanations()
	s.Require().Len(explanations, 1)
	s.Contains(explanations[0], "Currency JPY is not accepted")
}

func (s *RunnerSuite) TestMissingDirectoryFails() {
	_, err := s.runner.Run(context.Background(), filepath.Join(s.dir, "nope"))
	s.Error(err)
}
