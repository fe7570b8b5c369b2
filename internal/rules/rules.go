package rules

// Rules is the frozen form of a Document, shared read-only by every stage.
// Build it with Default, Load or Parse.
type Rules struct {
	doc         Document
	canonical   map[string]resolved
	descriptive map[string]struct{}
	textSent    map[string]struct{}
	strictSent  map[string]struct{}
	hash        string
}

type resolved struct {
	key      string
	priority int // 0 = canonical spelling, then variant order
}

func newRules(doc Document) (*Rules, error) {
	if err := Validate(&doc); err != nil {
		return nil, err
	}

	r := &Rules{
		doc:         doc,
		canonical:   make(map[string]resolved),
		descriptive: toSet(doc.DescriptiveFields),
		textSent:    toSet(doc.Sentinels.Text),
		strictSent:  toSet(doc.Sentinels.Strict),
	}

	for _, g := range doc.Synonyms {
		r.canonical[g.Canonical] = resolved{key: g.Canonical, priority: 0}
		for i, v := range g.Variants {
			if v == g.Canonical {
				continue
			}
			r.canonical[v] = resolved{key: g.Canonical, priority: i + 1}
		}
	}

	h, err := hashDocument(&doc)
	if err != nil {
		return nil, err
	}
	r.hash = h

	return r, nil
}

// Canonical resolves a raw key. Unknown keys resolve to themselves with ok=false.
// Lower priority wins when two raw keys resolve to the same canonical key.
func (r *Rules) Canonical(key string) (canonical string, priority int, ok bool) {
	res, found := r.canonical[key]
	if !found {
		return key, 0, false
	}
	return res.key, res.priority, true
}

// IsDescriptive reports whether key is a company text field
func (r *Rules) IsDescriptive(key string) bool {
	_, ok := r.descriptive[key]
	return ok
}

// IsTextSentinel reports whether s means "absent" for a descriptive field
func (r *Rules) IsTextSentinel(s string) bool {
	_, ok := r.textSent[s]
	return ok
}

// IsStrictSentinel reports whether s means "absent" for a numeric or statement field
func (r *Rules) IsStrictSentinel(s string) bool {
	_, ok := r.strictSent[s]
	return ok
}

// StatementSections returns the known statement section names
func (r *Rules) StatementSections() []string {
	return append([]string(nil), r.doc.StatementSections...)
}

// InsightWindows returns the look-back periods used by windowed insight rules
func (r *Rules) InsightWindows() []int {
	return append([]int(nil), r.doc.Insights.Windows...)
}

// MaxInsights is the number of pros (and of cons) kept per company
func (r *Rules) MaxInsights() int {
	return r.doc.Insights.MaxPerList
}

// Thresholds returns a copy of the insight thresholds
func (r *Rules) Thresholds() Thresholds {
	return r.doc.Insights.Thresholds
}

// Pros returns a copy of the pro templates
func (r *Rules) Pros() ProTemplates {
	return r.doc.Insights.Pros
}

// Cons returns a copy of the con templates
func (r *Rules) Cons() ConTemplates {
	return r.doc.Insights.Cons
}

// SynonymCount returns the number of synonym groups
func (r *Rules) SynonymCount() int {
	return len(r.doc.Synonyms)
}

// Hash is the SHA256 of the canonical JSON form, logged with every run
func (r *Rules) Hash() string {
	return r.hash
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
