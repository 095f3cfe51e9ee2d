package agent

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/llm"
	"mediq/internal/observability"
	"mediq/internal/orchestrator"
	"mediq/internal/types"
)

// Tool names the model may request.
const (
	actionDoctorRAG = "doctor_rag"
	actionVectorRAG = "vector_rag"
	actionWebSearch = "web_search"
	actionFinish    = "finish"
)

const (
	maxTurns        = 5
	turnMaxTokens   = 600
	turnTemperature = 0.3

	budgetExhaustedAnswer    = "無法在限制內完成診斷"
	unknownActionObservation = "未知行動"
)

const systemPrompt = "你是一個醫療 ReAct agent，可使用以下工具：\n" +
	"1. doctor_rag：查詢醫師資料庫\n" +
	"2. vector_rag：向量檢索醫師資料\n" +
	"3. web_search：Google 搜尋\n" +
	"4. finish：輸出最終診斷報告。\n" +
	"請依序輸出 Thought、Action、Action Input，獲得 Observation 後再繼續，直到使用 finish。回覆語言為繁體中文。"

var (
	actionPattern      = regexp.MustCompile(`(?i)Action\s*:\s*(\w+)`)
	actionInputPattern = regexp.MustCompile(`(?is)Action Input\s*:\s*(.*)`)
	finalAnswerPattern = regexp.MustCompile(`(?is)Final Answer\s*:\s*(.*)`)
)

// QueryExpander rewrites a raw query into a web search query.
type QueryExpander func(string) string

// Agent runs a bounded reasoning loop where the model picks a
// retrieval tool each turn until it finishes or the turn budget runs
// out.
type Agent struct {
	client  llm.Client
	keyword orchestrator.KeywordSearcher
	vector  orchestrator.VectorSearcher
	web     orchestrator.WebSearcher
	expand  QueryExpander
	logger  *observability.Logger
}

func New(client llm.Client, keyword orchestrator.KeywordSearcher, vector orchestrator.VectorSearcher, web orchestrator.WebSearcher, expand QueryExpander, logger *observability.Logger) *Agent {
	if expand == nil {
		expand = func(q string) string { return q }
	}
	return &Agent{
		client:  client,
		keyword: keyword,
		vector:  vector,
		web:     web,
		expand:  expand,
		logger:  observability.OrNop(logger).WithComponent("agent"),
	}
}

// Run drives the loop. Completion failures are fatal and surface as a
// SynthesisError; tool failures come back to the model as observations
// so it can route around them.
func (a *Agent) Run(ctx context.Context, query string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: query},
	}

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := a.client.Complete(ctx, llm.CompletionRequest{
			Messages:    messages,
			MaxTokens:   turnMaxTokens,
			Temperature: turnTemperature,
		})
		if err != nil {
			return "", mediqerrors.NewSynthesisError(err)
		}
		reply := strings.TrimSpace(resp.Content)

		action, input := parseAction(reply)
		a.logger.Debug("agent turn", "turn", turn, "action", action)

		if action == actionFinish {
			return finalAnswer(reply), nil
		}

		observation := a.observe(ctx, action, input, query)

		messages = append(messages,
			llm.Message{Role: "assistant", Content: reply},
			llm.Message{Role: "user", Content: "Observation: " + observation},
		)
	}

	return budgetExhaustedAnswer, nil
}

// observe executes a single tool call. An empty action input falls
// back to the original user query.
func (a *Agent) observe(ctx context.Context, action, input, query string) string {
	if input == "" {
		input = query
	}

	switch action {
	case actionDoctorRAG:
		return marshalObservation(a.keyword.Search(input))
	case actionVectorRAG:
		if a.vector == nil {
			return marshalObservation(types.RetrievalResult{Method: types.MethodVector})
		}
		return marshalObservation(a.vector.Search(ctx, input))
	case actionWebSearch:
		if a.web == nil || !a.web.Enabled() {
			return "[]"
		}
		snippets, err := a.web.Search(ctx, a.expand(input), 3)
		if err != nil {
			a.logger.Warn("agent web search failed", "error", err)
			return "[]"
		}
		return marshalObservation(snippets)
	default:
		return unknownActionObservation
	}
}

// parseAction pulls the Action and Action Input lines out of a model
// reply. JSON-looking inputs are repaired and reduced to their query
// field when one is present.
func parseAction(reply string) (action, input string) {
	if m := actionPattern.FindStringSubmatch(reply); m != nil {
		action = strings.ToLower(m[1])
	}
	if m := actionInputPattern.FindStringSubmatch(reply); m != nil {
		input = strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(input, "{") {
		if fixed, err := jsonrepair.JSONRepair(input); err == nil {
			var payload struct {
				Query string `json:"query"`
			}
			if json.Unmarshal([]byte(fixed), &payload) == nil && payload.Query != "" {
				input = payload.Query
			}
		}
	}
	return action, input
}

func finalAnswer(reply string) string {
	if m := finalAnswerPattern.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	return reply
}

func marshalObservation(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
