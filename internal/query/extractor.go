// Package query classifies a raw query: does it demand real-time queue data,
// and which hospital, department and staff member does it mention. Extraction
// is heuristic and table-driven; it applies an ordered list of rules and
// reports a confidence signal instead of guessing further.
package query

import (
	"regexp"
	"strings"
)

// Confidence qualifies how a staff name was extracted.
type Confidence string

const (
	// ConfidenceHigh - the name followed a department/session token.
	ConfidenceHigh Confidence = "high"
	// ConfidenceLow - fallback surname scan anywhere in the text.
	ConfidenceLow Confidence = "low"
)

// Entities is the classification of one query.
type Entities struct {
	IsRealTime     bool
	Hospital       string // canonical key, empty when unresolved
	Department     string // canonical table name, empty when unresolved
	DepartmentCode string // virtual-department registration code
	StaffName      string
	NameConfidence Confidence // empty when no name was extracted
}

var (
	// One pattern per department: the stem with 部/科/診 widened to a short
	// wildcard, an optional session digit (full- or half-width), and the 診
	// suffix. Matches forms like 內科2診 or 內科部１診.
	deptSessionPatterns []*regexp.Regexp

	// Name immediately following the department/session token.
	namePrimaryPattern = regexp.MustCompile(`診[\s　]*([` + commonSurnames + `]\p{Han}{1,3}?)(?:目前|現在|的|\s|　|$)`)

	// Fallback: first surname plus one or two characters anywhere.
	nameFallbackPattern = regexp.MustCompile(`[` + commonSurnames + `]\p{Han}{1,2}`)
)

func init() {
	stemmer := strings.NewReplacer("部", ".?", "科", ".?", "診", ".?")
	deptSessionPatterns = make([]*regexp.Regexp, len(departments))
	for i, dept := range departments {
		deptSessionPatterns[i] = regexp.MustCompile(stemmer.Replace(dept.Name) + `[1１2２3３]?診`)
	}
}

// Classify extracts intent and entities from a query. Pure function of the
// input text and the static tables.
func Classify(text string) Entities {
	ent := Entities{
		IsRealTime: isRealTime(text),
		Hospital:   resolveHospital(text),
	}
	ent.Department, ent.DepartmentCode = resolveDepartment(text)
	ent.StaffName, ent.NameConfidence = extractStaffName(text)
	return ent
}

func isRealTime(text string) bool {
	for _, kw := range realTimeKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func resolveHospital(text string) string {
	for _, h := range hospitalAliases {
		if strings.Contains(text, h.Alias) {
			return h.Canonical
		}
	}
	return ""
}

// resolveDepartment applies two rules in order: an exact substring match on
// the canonical name, then the session-qualifier pattern. Either way the
// canonical table name is returned, so 內科部２診 and 內科部2診 resolve
// identically.
func resolveDepartment(text string) (name, code string) {
	for _, dept := range departments {
		if strings.Contains(text, dept.Name) {
			return dept.Name, dept.Code
		}
	}
	for i, pattern := range deptSessionPatterns {
		if pattern.MatchString(text) {
			return departments[i].Name, departments[i].Code
		}
	}
	return "", ""
}

func extractStaffName(text string) (string, Confidence) {
	if m := namePrimaryPattern.FindStringSubmatch(text); m != nil {
		return m[1], ConfidenceHigh
	}
	if m := nameFallbackPattern.FindString(text); m != "" {
		return m, ConfidenceLow
	}
	return "", ""
}
