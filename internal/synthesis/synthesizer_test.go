package synthesis

import (
	"context"
	"strings"
	"testing"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/llm"
	"mediq/internal/types"
)

func sampleEvidence() types.MergedEvidence {
	return types.MergedEvidence{
		Staff: &types.RetrievalResult{
			Success: true,
			Count:   1,
			Matches: []types.RetrievalMatch{{
				Record: types.StaffRecord{
					Name:      "王大明",
					Specialty: []string{"心臟內科", "高血壓"},
					Title:     []string{"主治醫師"},
				},
			}},
			Method: types.MethodKeyword,
		},
		Live: &types.LiveStatusRecord{
			Hospital:      "高醫",
			Department:    "內科部1診",
			StaffName:     "王大明",
			CurrentNumber: "12",
			Timestamp:     "2026-09-01T08:30:00Z",
			Success:       true,
			Source:        types.SourceLive,
		},
		Web: []types.WebSnippet{
			{Title: "門診進度查詢", URL: "https://example.com", Snippet: "即時資訊"},
			{Title: "掛號須知"},
		},
	}
}

func TestBuildPromptSectionOrder(t *testing.T) {
	s := New(llm.NewMockClient(), nil)

	prompt := s.BuildPrompt("高醫內科1診現在看到幾號", sampleEvidence())

	liveIdx := strings.Index(prompt, "即時叫號資訊:")
	staffIdx := strings.Index(prompt, "相關醫師資訊:")
	webIdx := strings.Index(prompt, "網路搜尋結果:")
	instrIdx := strings.Index(prompt, "回答要求:")

	for name, idx := range map[string]int{"live": liveIdx, "staff": staffIdx, "web": webIdx, "instructions": instrIdx} {
		if idx < 0 {
			t.Fatalf("section %s missing from prompt", name)
		}
	}
	if !(liveIdx < staffIdx && staffIdx < webIdx && webIdx < instrIdx) {
		t.Errorf("section order wrong: live=%d staff=%d web=%d instr=%d", liveIdx, staffIdx, webIdx, instrIdx)
	}

	if !strings.Contains(prompt, "- 當前號碼: 12") {
		t.Error("live section missing current number")
	}
	if !strings.Contains(prompt, "1. 王大明 - 心臟內科、高血壓 (主治醫師)") {
		t.Error("staff section not rendered as numbered list")
	}
	if !strings.Contains(prompt, "摘要: 無摘要") {
		t.Error("empty snippet should render as 無摘要")
	}
}

func TestBuildPromptOmitsEmptySections(t *testing.T) {
	s := New(llm.NewMockClient(), nil)

	prompt := s.BuildPrompt("查詢", types.MergedEvidence{
		Staff: &types.RetrievalResult{Success: true, Count: 0, Method: types.MethodKeyword},
	})

	if strings.Contains(prompt, "即時叫號資訊:") {
		t.Error("live section should be omitted")
	}
	if strings.Contains(prompt, "相關醫師資訊:") {
		t.Error("empty staff section should be omitted")
	}
	if strings.Contains(prompt, "網路搜尋結果:") {
		t.Error("web section should be omitted")
	}
	if !strings.Contains(prompt, "回答要求:") {
		t.Error("instruction block must always be present")
	}
}

func TestSynthesizeReturnsAnswer(t *testing.T) {
	mock := llm.NewMockClient("王大明醫師目前看到 12 號。")
	s := New(mock, nil)

	text, err := s.Synthesize(context.Background(), "高醫內科看到幾號", sampleEvidence())
	if err != nil {
		t.Fatal(err)
	}
	if text != "王大明醫師目前看到 12 號。" {
		t.Errorf("answer = %q", text)
	}
	if mock.CallCount() != 1 {
		t.Errorf("completions = %d, want 1", mock.CallCount())
	}
}

func TestSynthesizeWrapsCompletionFailure(t *testing.T) {
	mock := llm.NewMockClient()
	mock.Err = context.DeadlineExceeded
	s := New(mock, nil)

	_, err := s.Synthesize(context.Background(), "查詢", sampleEvidence())
	if err == nil {
		t.Fatal("expected error")
	}
	if !mediqerrors.IsSynthesis(err) {
		t.Errorf("error type = %T, want synthesis error", err)
	}
}

func TestSynthesizeEmptyCompletionIsFatal(t *testing.T) {
	mock := llm.NewMockClient("   ")
	s := New(mock, nil)

	_, err := s.Synthesize(context.Background(), "查詢", sampleEvidence())
	if !mediqerrors.IsSynthesis(err) {
		t.Fatalf("error = %v, want synthesis error", err)
	}
}
