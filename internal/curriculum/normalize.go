package curriculum

import "strings"

// Vocabulary is the set of canonical subject names a label may resolve to.
type Vocabulary interface {
	Has(name string) bool
}

// SubjectSet is a literal Vocabulary.
type SubjectSet map[string]struct{}

// NewSubjectSet builds a SubjectSet from names.
func NewSubjectSet(names ...string) SubjectSet {
	set := make(SubjectSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func (s SubjectSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

type rule struct {
	matches   func(lower string) bool
	canonical string
}

func prefix(p string) func(string) bool {
	return func(s string) bool { return strings.HasPrefix(s, p) }
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func exactOr(word, sub string) func(string) bool {
	return func(s string) bool { return s == word || strings.Contains(s, sub) }
}

// rules are tested in order against the lower-cased label; the first hit wins.
var rules = []rule{
	{func(s string) bool { return strings.HasPrefix(s, "idaf") || strings.Contains(s, "interdisziplin") }, IDAF},
	{exactOr("frw", "finanz"), FinanzRechnung},
	{exactOr("wr", "wirtschaft und recht"), WirtschaftRecht},
	{prefix("geschichte"), GeschichtePolitik},
	{prefix("mathematik"), Mathematik},
	{prefix("deutsch"), Deutsch},
	{prefix("englisch"), Englisch},
	{prefix("franz"), Franzoesisch},
	{contains("natur"), Naturwissenschaften},
}

// Normalize maps a raw subject label, as found on a scanned SAL list or
// bulletin, to a canonical subject name in vocab.
//
// Labels that start with a digit are internal course codes ("129-INP") and
// never match. A rule hit that is not part of vocab is rejected rather than
// falling through to the exact-match fallback.
func Normalize(raw string, vocab Vocabulary) (string, bool) {
	label := strings.TrimSpace(raw)
	if label == "" {
		return "", false
	}
	if label[0] >= '0' && label[0] <= '9' {
		return "", false
	}

	lower := strings.ToLower(label)
	for _, r := range rules {
		if r.matches(lower) {
			if vocab.Has(r.canonical) {
				return r.canonical, true
			}
			return "", false
		}
	}

	candidate := strings.Join(strings.Fields(label), " ")
	if vocab.Has(candidate) {
		return candidate, true
	}
	return "", false
}
