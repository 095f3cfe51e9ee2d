package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/livestatus"
	"mediq/internal/observability"
	"mediq/internal/query"
	"mediq/internal/types"
)

const maxWebSnippets = 3

// KeywordSearcher matches staff records by weighted keyword scoring.
type KeywordSearcher interface {
	Search(query string) types.RetrievalResult
}

// VectorSearcher matches staff records by embedding similarity.
type VectorSearcher interface {
	Search(ctx context.Context, query string) types.RetrievalResult
}

// WebSearcher returns public web snippets for a query. A disabled
// searcher reports Enabled() == false and is never invoked.
type WebSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, num int) ([]types.WebSnippet, error)
}

// LiveFetcher extracts the current queue status for a hospital.
type LiveFetcher interface {
	FetchQueueStatus(ctx context.Context, hospital string, ent query.Entities) (types.LiveStatusRecord, error)
}

// Options select which retrieval sources a single orchestration runs.
type Options struct {
	EnableVectorRetrieval bool
	EnableLiveStatus      bool
}

// Orchestrator fans a query out to every configured source, waits for
// all of them, and merges whatever came back. Individual source
// failures degrade in place and never abort the other sources.
type Orchestrator struct {
	keyword KeywordSearcher
	vector  VectorSearcher
	web     WebSearcher
	live    LiveFetcher
	logger  *observability.Logger
	metrics *observability.Metrics
}

// New wires an orchestrator. vector, web and live may be nil when the
// corresponding source is not configured.
func New(keyword KeywordSearcher, vector VectorSearcher, web WebSearcher, live LiveFetcher, logger *observability.Logger, metrics *observability.Metrics) *Orchestrator {
	return &Orchestrator{
		keyword: keyword,
		vector:  vector,
		web:     web,
		live:    live,
		logger:  observability.OrNop(logger).WithComponent("orchestrator"),
		metrics: metrics,
	}
}

// Retrieve runs every enabled source concurrently and merges the
// results. searchQuery is the expanded query used for web search; the
// staff retrievers receive the raw query text.
func (o *Orchestrator) Retrieve(ctx context.Context, rawQuery, searchQuery string, ent query.Entities, opts Options) types.MergedEvidence {
	var (
		keywordRes types.RetrievalResult
		vectorRes  *types.RetrievalResult
		webRes     []types.WebSnippet
		liveRes    *types.LiveStatusRecord
	)

	// Plain Group on purpose: a failing source must not cancel the
	// others, so every goroutine settles into its own slot and
	// returns nil.
	var g errgroup.Group

	g.Go(func() error {
		keywordRes = o.keyword.Search(rawQuery)
		return nil
	})

	if opts.EnableVectorRetrieval && o.vector != nil {
		g.Go(func() error {
			res := o.vector.Search(ctx, rawQuery)
			if !res.Success {
				o.metrics.ObserveRetrievalFailure("vector")
			}
			vectorRes = &res
			return nil
		})
	}

	if o.web != nil && o.web.Enabled() {
		g.Go(func() error {
			snippets, err := o.web.Search(ctx, searchQuery, maxWebSnippets)
			if err != nil {
				o.logger.Warn("web search failed", "error", err)
				o.metrics.ObserveRetrievalFailure("web")
				return nil
			}
			webRes = snippets
			return nil
		})
	}

	if opts.EnableLiveStatus && o.live != nil && ent.IsRealTime {
		g.Go(func() error {
			rec, err := o.live.FetchQueueStatus(ctx, ent.Hospital, ent)
			if err != nil {
				if mediqerrors.IsUnsupportedHospital(err) {
					o.logger.Info("hospital not supported for live status", "hospital", ent.Hospital)
				} else {
					o.logger.Warn("live status fetch failed", "error", err)
				}
				o.metrics.ObserveRetrievalFailure("live")
				rec = livestatus.PlaceholderRecord(ent.Hospital)
			}
			if !rec.Success {
				o.metrics.ObserveLiveFallback()
			}
			liveRes = &rec
			return nil
		})
	}

	g.Wait()

	return o.merge(keywordRes, vectorRes, webRes, liveRes)
}

// merge applies the source priority rules: vector results replace
// keyword results outright when the vector search succeeded with at
// least one match, and a successful live reading makes web snippets
// redundant.
func (o *Orchestrator) merge(keyword types.RetrievalResult, vector *types.RetrievalResult, web []types.WebSnippet, live *types.LiveStatusRecord) types.MergedEvidence {
	staff := keyword
	if vector != nil && vector.Success && vector.Count > 0 {
		staff = *vector
	}

	if live != nil && live.Success {
		web = nil
	}
	if len(web) > maxWebSnippets {
		web = web[:maxWebSnippets]
	}

	return types.MergedEvidence{
		Staff: &staff,
		Live:  live,
		Web:   web,
	}
}
