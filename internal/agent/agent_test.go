package agent

import (
	"context"
	"strings"
	"testing"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/llm"
	"mediq/internal/types"
)

type recordingKeyword struct {
	queries []string
}

func (r *recordingKeyword) Search(q string) types.RetrievalResult {
	r.queries = append(r.queries, q)
	return types.RetrievalResult{
		Success: true,
		Count:   1,
		Matches: []types.RetrievalMatch{{Record: types.StaffRecord{Name: "王大明"}}},
		Method:  types.MethodKeyword,
	}
}

func TestRunFinishReturnsFinalAnswer(t *testing.T) {
	mock := llm.NewMockClient(
		"Thought: 我已有足夠資訊。\nAction: finish\nFinal Answer: 王大明是心臟內科主治醫師。",
	)
	a := New(mock, &recordingKeyword{}, nil, nil, nil, nil)

	answer, err := a.Run(context.Background(), "王大明是誰")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "王大明是心臟內科主治醫師。" {
		t.Errorf("answer = %q", answer)
	}
	if mock.CallCount() != 1 {
		t.Errorf("completions = %d, want 1", mock.CallCount())
	}
}

func TestRunToolCallThenFinish(t *testing.T) {
	mock := llm.NewMockClient(
		"Thought: 先查醫師資料庫。\nAction: doctor_rag\nAction Input: 王大明",
		"Thought: 查到了。\nAction: finish\nFinal Answer: 王大明。",
	)
	kw := &recordingKeyword{}
	a := New(mock, kw, nil, nil, nil, nil)

	answer, err := a.Run(context.Background(), "查一下王大明")
	if err != nil {
		t.Fatal(err)
	}
	if answer != "王大明。" {
		t.Errorf("answer = %q", answer)
	}
	if len(kw.queries) != 1 || kw.queries[0] != "王大明" {
		t.Errorf("tool queries = %v", kw.queries)
	}

	// The second turn must carry the observation back to the model.
	second := mock.Calls[1]
	last := second.Messages[len(second.Messages)-1]
	if last.Role != "user" || !strings.HasPrefix(last.Content, "Observation: ") {
		t.Errorf("last message = %+v, want observation", last)
	}
	if !strings.Contains(last.Content, "王大明") {
		t.Errorf("observation lacks tool result: %q", last.Content)
	}
}

func TestRunEmptyActionInputFallsBackToQuery(t *testing.T) {
	mock := llm.NewMockClient(
		"Action: doctor_rag\nAction Input:",
		"Action: finish\nFinal Answer: 完成。",
	)
	kw := &recordingKeyword{}
	a := New(mock, kw, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), "原始查詢"); err != nil {
		t.Fatal(err)
	}
	if len(kw.queries) != 1 || kw.queries[0] != "原始查詢" {
		t.Errorf("tool queries = %v, want original query", kw.queries)
	}
}

func TestRunJSONActionInputIsRepaired(t *testing.T) {
	mock := llm.NewMockClient(
		"Action: doctor_rag\nAction Input: {query: \"李小華\",}",
		"Action: finish\nFinal Answer: 完成。",
	)
	kw := &recordingKeyword{}
	a := New(mock, kw, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), "查詢"); err != nil {
		t.Fatal(err)
	}
	if len(kw.queries) != 1 || kw.queries[0] != "李小華" {
		t.Errorf("tool queries = %v, want repaired JSON query", kw.queries)
	}
}

func TestRunUnknownActionObserved(t *testing.T) {
	mock := llm.NewMockClient(
		"Action: teleport\nAction Input: 高雄",
		"Action: finish\nFinal Answer: 完成。",
	)
	a := New(mock, &recordingKeyword{}, nil, nil, nil, nil)

	if _, err := a.Run(context.Background(), "查詢"); err != nil {
		t.Fatal(err)
	}

	second := mock.Calls[1]
	last := second.Messages[len(second.Messages)-1]
	if !strings.Contains(last.Content, unknownActionObservation) {
		t.Errorf("observation = %q, want unknown-action marker", last.Content)
	}
}

func TestRunTurnBudgetExhausted(t *testing.T) {
	mock := llm.NewMockClient(
		"Action: doctor_rag\nAction Input: 一",
		"Action: doctor_rag\nAction Input: 二",
		"Action: doctor_rag\nAction Input: 三",
		"Action: doctor_rag\nAction Input: 四",
		"Action: doctor_rag\nAction Input: 五",
		"Action: finish\nFinal Answer: 不會到這裡。",
	)
	a := New(mock, &recordingKeyword{}, nil, nil, nil, nil)

	answer, err := a.Run(context.Background(), "查詢")
	if err != nil {
		t.Fatal(err)
	}
	if answer != budgetExhaustedAnswer {
		t.Errorf("answer = %q, want budget message", answer)
	}
	if mock.CallCount() != maxTurns {
		t.Errorf("completions = %d, want %d", mock.CallCount(), maxTurns)
	}
}

func TestRunFinishWithoutFinalAnswerReturnsReply(t *testing.T) {
	mock := llm.NewMockClient("Action: finish\n診斷完成,一切正常。")
	a := New(mock, &recordingKeyword{}, nil, nil, nil, nil)

	answer, err := a.Run(context.Background(), "查詢")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(answer, "診斷完成") {
		t.Errorf("answer = %q, want raw reply", answer)
	}
}

func TestRunCompletionFailureIsFatal(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = context.DeadlineExceeded
	a := New(mock, &recordingKeyword{}, nil, nil, nil, nil)

	_, err := a.Run(context.Background(), "查詢")
	if !mediqerrors.IsSynthesis(err) {
		t.Fatalf("error = %v, want synthesis error", err)
	}
}
