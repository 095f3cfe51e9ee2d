package livestatus

import (
	"context"
	"fmt"
	"testing"

	mediqerrors "mediq/internal/errors"
	"mediq/internal/query"
	"mediq/internal/types"
)

const queuePageFixture = `
<html><body>
<div class="c_table">
  <span class="SeqDept">內科部　１診</span>
  <span class="DocName">王大明</span>
  <span class="CurrentSeq">１２</span>
</div>
<div class="c_table">
  <span class="SeqDept">內科部　２診</span>
  <span class="DocName">李小華</span>
  <span class="CurrentSeq">34</span>
</div>
<div class="c_table">
  <span class="SeqDept">皮膚部</span>
  <span class="DocName">陳美玲</span>
  <span class="CurrentSeq">7</span>
</div>
</body></html>`

type stubRenderer struct {
	markup string
	err    error
}

func (s *stubRenderer) Render(context.Context, string) (string, error) {
	return s.markup, s.err
}

func TestFetchQueueStatusMatchesRow(t *testing.T) {
	e := NewExtractor(&stubRenderer{markup: queuePageFixture}, nil)

	rec, err := e.FetchQueueStatus(context.Background(), "高醫", query.Entities{
		Department: "內科部2診",
		StaffName:  "李小華",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !rec.Success {
		t.Fatal("expected live record")
	}
	if rec.Source != types.SourceLive {
		t.Errorf("source = %q, want live", rec.Source)
	}
	if rec.CurrentNumber != "34" {
		t.Errorf("current number = %q, want 34", rec.CurrentNumber)
	}
	if rec.StaffName != "李小華" {
		t.Errorf("staff = %q, want 李小華", rec.StaffName)
	}
	if rec.Timestamp == "" {
		t.Error("timestamp missing")
	}
}

func TestFetchQueueStatusNormalizesFullWidthDigits(t *testing.T) {
	e := NewExtractor(&stubRenderer{markup: queuePageFixture}, nil)

	// Row text uses full-width １診; the query entity arrives half-width.
	rec, err := e.FetchQueueStatus(context.Background(), "高醫", query.Entities{
		Department: "內科部1診",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !rec.Success {
		t.Fatal("expected live record")
	}
	if rec.StaffName != "王大明" {
		t.Errorf("staff = %q, want first matching row 王大明", rec.StaffName)
	}
	if rec.CurrentNumber != "12" {
		t.Errorf("current number = %q, want normalized 12", rec.CurrentNumber)
	}
}

func TestFetchQueueStatusFirstRowWhenUnqualified(t *testing.T) {
	e := NewExtractor(&stubRenderer{markup: queuePageFixture}, nil)

	rec, err := e.FetchQueueStatus(context.Background(), "高醫", query.Entities{})
	if err != nil {
		t.Fatal(err)
	}
	if rec.StaffName != "王大明" {
		t.Errorf("staff = %q, want document-order first row", rec.StaffName)
	}
}

func TestFetchQueueStatusUnsupportedHospital(t *testing.T) {
	e := NewExtractor(&stubRenderer{markup: queuePageFixture}, nil)

	_, err := e.FetchQueueStatus(context.Background(), "台大", query.Entities{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !mediqerrors.IsUnsupportedHospital(err) {
		t.Errorf("error type = %T", err)
	}
}

func TestFetchQueueStatusPlaceholderOnRenderFailure(t *testing.T) {
	e := NewExtractor(&stubRenderer{err: fmt.Errorf("proxy timeout")}, nil)

	rec, err := e.FetchQueueStatus(context.Background(), "高醫", query.Entities{})
	if err != nil {
		t.Fatalf("render failure must degrade, got %v", err)
	}
	if rec.Success {
		t.Error("expected placeholder record")
	}
	if rec.Source != types.SourcePlaceholder {
		t.Errorf("source = %q, want placeholder", rec.Source)
	}
	if rec.CurrentNumber != unavailableNumber {
		t.Errorf("current number = %q", rec.CurrentNumber)
	}
	if rec.Message == "" {
		t.Error("placeholder should carry guidance message")
	}
}

func TestFetchQueueStatusPlaceholderOnNoMatch(t *testing.T) {
	e := NewExtractor(&stubRenderer{markup: queuePageFixture}, nil)

	rec, err := e.FetchQueueStatus(context.Background(), "高醫", query.Entities{
		Department: "骨科部",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Success {
		t.Error("expected placeholder record")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"內科部　２診", "內科部2診"},
		{" １２ ", "12"},
		{"王 大 明", "王大明"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalize(tc.in); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
