package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/creasty/defaults"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"tripnotes/internal/config"
	"tripnotes/internal/models/db_models"
	"tripnotes/internal/repositories"
	"tripnotes/pkg/completion"
	"tripnotes/pkg/metrics"
)

func testAppConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	c := new(config.AppConfig)
	if err := defaults.Set(c); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	return c
}

func testMetrics() *metrics.PlanMetrics {
	return metrics.New(prometheus.NewRegistry())
}

// sseBody frames each fragment as an OpenAI-style stream event and ends
// with the terminator.
func sseBody(fragments ...string) string {
	var b strings.Builder
	for _, f := range fragments {
		env := openai.ChatCompletionStreamResponse{
			Choices: []openai.ChatCompletionStreamChoice{{
				Delta: openai.ChatCompletionStreamChoiceDelta{Content: f},
			}},
		}
		raw, _ := json.Marshal(env)
		b.WriteString("data: ")
		b.Write(raw)
		b.WriteString("\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

// splitInto cuts s into n roughly equal fragments.
func splitInto(s string, n int) []string {
	size := (len(s) + n - 1) / n
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	return append(out, s)
}

type fakeProvider struct {
	body     string
	err      error
	open     func(ctx context.Context) (io.ReadCloser, error)
	requests []completion.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) StreamComplete(ctx context.Context, req completion.Request) (io.ReadCloser, error) {
	f.requests = append(f.requests, req)
	if f.open != nil {
		return f.open(ctx)
	}
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

// failingPlanRepo embeds the interface so only the overridden methods
// need an implementation.
type failingPlanRepo struct {
	repositories.IPlanRepository
	err error
}

func (f *failingPlanRepo) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, f.err
}

func (f *failingPlanRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error) {
	return nil, f.err
}

func (f *failingPlanRepo) MarkProjectOutdated(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, f.err
}

var errBoom = errors.New("connection reset")

func nopLogger() *zap.Logger { return zap.NewNop() }
