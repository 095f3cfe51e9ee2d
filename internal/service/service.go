package service

import (
	"context"
	"strings"
	"time"

	"mediq/internal/observability"
	"mediq/internal/orchestrator"
	"mediq/internal/query"
	"mediq/internal/types"
)

// Mode selects the query processing strategy.
type Mode string

const (
	// ModeSimple runs keyword retrieval only, with web search and
	// live status on top.
	ModeSimple Mode = "simple"
	// ModeFull adds embedding retrieval, which overrides keyword
	// matches when it succeeds.
	ModeFull Mode = "full"
	// ModeAgentic hands the query to the reasoning loop instead of
	// the fixed pipeline.
	ModeAgentic Mode = "agentic"
)

// Synthesizer produces the final answer text from merged evidence.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, evidence types.MergedEvidence) (string, error)
}

// Runner is the reasoning loop entry point used by the agentic mode.
type Runner interface {
	Run(ctx context.Context, query string) (string, error)
}

// Service is the front door of the query pipeline: classify, retrieve,
// synthesize.
type Service struct {
	orch    *orchestrator.Orchestrator
	synth   Synthesizer
	agent   Runner
	logger  *observability.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func New(orch *orchestrator.Orchestrator, synth Synthesizer, agent Runner, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		orch:    orch,
		synth:   synth,
		agent:   agent,
		logger:  observability.OrNop(logger).WithComponent("service"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Process answers one user query in the given mode.
func (s *Service) Process(ctx context.Context, rawQuery string, mode Mode) (*types.Answer, error) {
	rawQuery = strings.TrimSpace(rawQuery)
	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(string(mode)).Inc()
	}

	if mode == ModeAgentic && s.agent != nil {
		text, err := s.agent.Run(ctx, rawQuery)
		if err != nil {
			return nil, err
		}
		return &types.Answer{
			Text:      text,
			Timestamp: s.now().UTC().Format(time.RFC3339),
		}, nil
	}

	ent := query.Classify(rawQuery)
	s.logger.Info("query classified",
		"realtime", ent.IsRealTime,
		"hospital", ent.Hospital,
		"department", ent.Department,
		"staff", ent.StaffName,
		"name_confidence", string(ent.NameConfidence))

	evidence := s.orch.Retrieve(ctx, rawQuery, ExpandSearchQuery(rawQuery), ent, orchestrator.Options{
		EnableVectorRetrieval: mode == ModeFull,
		EnableLiveStatus:      true,
	})

	text, err := s.synth.Synthesize(ctx, rawQuery, evidence)
	if err != nil {
		if s.metrics != nil {
			s.metrics.SynthesisFailures.Inc()
		}
		return nil, err
	}

	return &types.Answer{
		Text:      text,
		Evidence:  evidence,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}, nil
}

// ExpandSearchQuery enriches the raw query for web search: queue
// queries get queue-progress keywords appended and doctor queries
// without an explicit hospital get the supported hospital's full name.
func ExpandSearchQuery(rawQuery string) string {
	expanded := rawQuery
	if strings.Contains(rawQuery, "看到幾號") || strings.Contains(rawQuery, "叫號") {
		expanded += " 即時叫號 門診進度"
	}
	if strings.Contains(rawQuery, "醫師") && !strings.Contains(rawQuery, "高醫") {
		expanded += " 高雄醫學大學附設醫院"
	}
	return expanded
}
