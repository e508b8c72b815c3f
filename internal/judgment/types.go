package judgment

// Set is a judgment file: an ordered list of groups.
type Set []Group

// Group holds equivalent phrasings of one judged query. Every phrasing is
// scored against the same rating list.
type Group struct {
	Queries []string        `json:"queries" yaml:"queries"`
	Items   []RatedDocument `json:"items" yaml:"items"`
}

type RatedDocument struct {
	Hash   string `json:"hash" yaml:"hash"`
	Rating int    `json:"rating" yaml:"rating"`
}

// LabeledQuery is a single query phrasing with the ratings of its group.
type LabeledQuery struct {
	Text  string
	Items []RatedDocument
}

// Labeled expands the group into one LabeledQuery per phrasing, in order.
// The rating slice is shared, not copied.
func (g Group) Labeled() []LabeledQuery {
	out := make([]LabeledQuery, 0, len(g.Queries))
	for _, q := range g.Queries {
		out = append(out, LabeledQuery{Text: q, Items: g.Items})
	}
	return out
}

// QueryCount returns the total number of phrasings across all groups.
func (s Set) QueryCount() int {
	var n int
	for _, g := range s {
		n += len(g.Queries)
	}
	return n
}

// raw mirrors the on-disk shape with pointers so absent keys can be told
// apart from empty values.
type rawGroup struct {
	Queries *[]string  `json:"queries" yaml:"queries"`
	Items   *[]rawItem `json:"items" yaml:"items"`
}

type rawItem struct {
	Hash   *string `json:"hash" yaml:"hash"`
	Rating *int    `json:"rating" yaml:"rating"`
}
