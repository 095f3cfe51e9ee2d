package synthesis

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/llm"
	"mediq/internal/observability"
	"mediq/internal/types"
)

const (
	systemPrompt = "您是一個專業的醫療資訊查詢助手，專門協助使用者查詢醫院相關資訊。"

	answerMaxTokens   = 500
	answerTemperature = 0.3

	// Prompts past this size get their web section dropped before
	// the request goes out.
	promptTokenBudget = 6000

	encodingName = "cl100k_base"
)

// Synthesizer turns merged retrieval evidence into a single natural
// language answer.
type Synthesizer struct {
	client llm.Client
	logger *observability.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

func New(client llm.Client, logger *observability.Logger) *Synthesizer {
	return &Synthesizer{
		client: client,
		logger: observability.OrNop(logger).WithComponent("synthesis"),
	}
}

// Synthesize builds the evidence prompt and asks the model for the
// final answer. A completion failure or an empty completion is fatal
// for the request and comes back as a SynthesisError.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, evidence types.MergedEvidence) (string, error) {
	prompt := s.BuildPrompt(query, evidence)

	if s.countTokens(prompt) > promptTokenBudget && len(evidence.Web) > 0 {
		trimmed := evidence
		trimmed.Web = nil
		s.logger.Warn("prompt over token budget, dropping web section")
		prompt = s.BuildPrompt(query, trimmed)
	}

	resp, err := s.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", mediqerrors.NewSynthesisError(err)
	}
	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return "", mediqerrors.NewSynthesisError(fmt.Errorf("model returned empty completion"))
	}
	return text, nil
}

// BuildPrompt renders the evidence sections in fixed order: live queue
// status first, then staff matches, then web snippets, then the answer
// instructions. Empty sections are omitted entirely.
func (s *Synthesizer) BuildPrompt(query string, evidence types.MergedEvidence) string {
	var b strings.Builder

	fmt.Fprintf(&b, "您是一個專業的醫療資訊查詢助手。請根據以下資訊回答使用者的問題。\n\n使用者問題: %q\n\n", query)

	if live := evidence.Live; live != nil {
		fmt.Fprintf(&b, "即時叫號資訊:\n- 醫院: %s\n- 科別: %s\n- 醫師: %s\n- 當前號碼: %s\n- 更新時間: %s\n\n",
			orUnavailable(live.Hospital),
			orUnavailable(live.Department),
			orUnavailable(live.StaffName),
			orUnavailable(live.CurrentNumber),
			orUnavailable(live.Timestamp))
	}

	if staff := evidence.Staff; staff != nil && staff.Success && staff.Count > 0 {
		b.WriteString("相關醫師資訊:\n")
		for i, m := range staff.Matches {
			fmt.Fprintf(&b, "%d. %s - %s (%s)\n",
				i+1, m.Record.Name,
				strings.Join(m.Record.Specialty, "、"),
				strings.Join(m.Record.Title, "、"))
		}
		b.WriteString("\n")
	}

	if len(evidence.Web) > 0 {
		b.WriteString("網路搜尋結果:\n")
		for i, snippet := range evidence.Web {
			text := snippet.Snippet
			if text == "" {
				text = "無摘要"
			}
			fmt.Fprintf(&b, "%d. %s\n   摘要: %s\n\n", i+1, snippet.Title, text)
		}
	}

	b.WriteString(`請根據以上資訊提供準確、有用的回答。

回答要求:
1. 使用繁體中文回答
2. 如果有即時叫號資訊，請優先回答叫號進度
3. 如果有相關醫師資訊，可以補充醫師背景
4. 結合網路搜尋結果提供完整資訊
5. 回答要簡潔明瞭
6. 如果涉及醫院叫號資訊，請特別標註時間
7. 回答長度控制在 300 字以內

請直接回答，不要包含任何前綴或格式說明。`)

	return b.String()
}

// countTokens falls back to a rune-count estimate when the encoding
// cannot be loaded, so prompt budgeting never blocks a request.
func (s *Synthesizer) countTokens(text string) int {
	s.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			s.logger.Warn("token encoding unavailable, estimating by rune count", "error", err)
			return
		}
		s.enc = enc
	})
	if s.enc == nil {
		return len([]rune(text))
	}
	return len(s.enc.Encode(text, nil, nil))
}

func orUnavailable(v string) string {
	if v == "" {
		return "無法取得"
	}
	return v
}
