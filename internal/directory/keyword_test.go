package directory

import (
	"reflect"
	"testing"

	"mediq/internal/types"
)

func testDirectory() *Directory {
	return NewDirectory([]types.StaffRecord{
		{
			Name:       "王大明",
			Department: "內科部",
			Specialty:  []string{"心臟內科", "高血壓"},
			Title:      []string{"主治醫師"},
			Education:  []string{"高雄醫學大學醫學系"},
		},
		{
			Name:       "李小華",
			Department: "內科部",
			Specialty:  []string{"腸胃內科"},
			Title:      []string{"主任"},
		},
		{
			Name:       "陳美玲",
			Department: "皮膚部",
			Specialty:  []string{"皮膚外科", "雷射治療"},
			Title:      []string{"主治醫師"},
		},
		{
			Name:       "張建國",
			Department: "骨科部",
			Specialty:  []string{"運動醫學"},
			Experience: []string{"運動防護門診十年"},
		},
	})
}

func TestKeywordSearchNameOutranksDepartment(t *testing.T) {
	r := NewKeywordRetriever(testDirectory())

	res := r.Search("內科部的李小華")
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.Count == 0 {
		t.Fatal("expected matches")
	}
	// 李小華 scores name+department (18), 王大明 department only (8).
	if got := res.Matches[0].Record.Name; got != "李小華" {
		t.Errorf("top match = %q, want 李小華", got)
	}
	if got := res.Matches[0].Relevance; got != 0.9 {
		t.Errorf("top relevance = %v, want 0.9", got)
	}
}

func TestKeywordSearchRelevanceIsCapped(t *testing.T) {
	r := NewKeywordRetriever(testDirectory())

	// name 10 + department 8 + specialty 6 = 24, capped at 1.0.
	res := r.Search("內科部 王大明 心臟內科")
	if res.Matches[0].Relevance != 1.0 {
		t.Errorf("relevance = %v, want capped 1.0", res.Matches[0].Relevance)
	}
}

func TestKeywordSearchFieldCategoryCountsOnce(t *testing.T) {
	r := NewKeywordRetriever(testDirectory())

	// Both specialty values of 陳美玲 appear; the category still
	// contributes its weight a single time.
	res := r.Search("皮膚外科 雷射治療")
	if got := res.Matches[0].Relevance; got != 0.3 {
		t.Errorf("relevance = %v, want 0.3", got)
	}
	if got := res.Matches[0].MatchedFields; !reflect.DeepEqual(got, []string{"specialty"}) {
		t.Errorf("matched fields = %v, want [specialty]", got)
	}
}

func TestKeywordSearchDeterministicOrder(t *testing.T) {
	r := NewKeywordRetriever(testDirectory())

	first := r.Search("內科部")
	for i := 0; i < 10; i++ {
		again := r.Search("內科部")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
	// Equal scores keep directory order.
	if first.Matches[0].Record.Name != "王大明" || first.Matches[1].Record.Name != "李小華" {
		t.Errorf("tie order = %q, %q; want directory order 王大明, 李小華",
			first.Matches[0].Record.Name, first.Matches[1].Record.Name)
	}
}

func TestKeywordSearchCapsMatches(t *testing.T) {
	records := make([]types.StaffRecord, 5)
	for i := range records {
		records[i] = types.StaffRecord{Name: "醫師", Department: "內科部"}
	}
	r := NewKeywordRetriever(NewDirectory(records))

	res := r.Search("內科部")
	if res.Count != 3 {
		t.Errorf("count = %d, want 3", res.Count)
	}
}

func TestKeywordSearchEmptyDirectory(t *testing.T) {
	r := NewKeywordRetriever(NewDirectory(nil))

	res := r.Search("內科部")
	if !res.Success {
		t.Error("empty directory should still report success")
	}
	if res.Count != 0 {
		t.Errorf("count = %d, want 0", res.Count)
	}
	if res.Method != types.MethodKeyword {
		t.Errorf("method = %q, want keyword", res.Method)
	}
}
