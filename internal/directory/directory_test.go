package directory

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileDegradesToEmpty(t *testing.T) {
	dir := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	if dir.Len() != 0 {
		t.Errorf("len = %d, want 0", dir.Len())
	}
}

func TestLoadMalformedFileDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := Load(path, nil)
	if dir.Len() != 0 {
		t.Errorf("len = %d, want 0", dir.Len())
	}
}

func TestLoadParsesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	payload := `[
		{"name": "王大明", "department": "內科部", "specialty": ["心臟內科"], "title": ["主治醫師"]},
		{"name": "李小華", "department": "皮膚部"}
	]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	dir := Load(path, nil)
	if dir.Len() != 2 {
		t.Fatalf("len = %d, want 2", dir.Len())
	}
	rec := dir.Records()[0]
	if rec.Name != "王大明" || rec.Department != "內科部" {
		t.Errorf("first record = %+v", rec)
	}
	if len(rec.Specialty) != 1 || rec.Specialty[0] != "心臟內科" {
		t.Errorf("specialty = %v", rec.Specialty)
	}
}
