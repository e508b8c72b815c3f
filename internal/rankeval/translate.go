package rankeval

import (
	"strings"
	"unicode"

	"github.com/DjordjeVuckovic/rank-eval/internal/judgment"
	"github.com/elastic/go-elasticsearch/v8/typedapi/some"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"
)

// DefaultFields are searched when no field list is configured.
var DefaultFields = []string{"title", "text.nl", "text.en"}

// QueryID derives a request id from the query text by replacing every
// whitespace run with a single hyphen. Unicode spaces and the ASCII
// separators U+001C..U+001F count as whitespace.
func QueryID(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if isSpace(r) {
			if !inRun {
				b.WriteByte('-')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// Translate builds one Request per phrasing in the group. All requests share
// the group's ratings. Fields are used as given, including an empty list.
func Translate(g judgment.Group, index string, fields []string) []Request {
	labeled := g.Labeled()
	reqs := make([]Request, 0, len(labeled))
	for _, lq := range labeled {
		reqs = append(reqs, Request{
			ID:      QueryID(lq.Text),
			Request: SearchRequest{Query: matchQuery(lq.Text, fields)},
			Ratings: ratings(lq.Items, index),
		})
	}
	return reqs
}

// TranslateAll concatenates Translate over every group in order.
func TranslateAll(set judgment.Set, index string, fields []string) []Request {
	reqs := make([]Request, 0, set.QueryCount())
	for _, g := range set {
		reqs = append(reqs, Translate(g, index, fields)...)
	}
	return reqs
}

// DuplicateIDs returns ids used by more than one request, in first-seen order.
func DuplicateIDs(reqs []Request) []string {
	seen := make(map[string]int, len(reqs))
	var dups []string
	for _, r := range reqs {
		seen[r.ID]++
		if seen[r.ID] == 2 {
			dups = append(dups, r.ID)
		}
	}
	return dups
}

func matchQuery(text string, fields []string) Query {
	if fields == nil {
		fields = []string{}
	}

	return Query{
		Bool: &BoolQuery{
			MinimumShouldMatch: 1,
			Should: []Query{
				{
					MultiMatch: &MultiMatchQuery{
						Fields:    fields,
						Fuzziness: some.Int(0),
						Operator:  operator.Or,
						Query:     text,
						Type:      textquerytype.Bestfields,
					},
				},
				{
					MultiMatch: &MultiMatchQuery{
						Fields:   fields,
						Operator: operator.Or,
						Query:    text,
						Type:     textquerytype.Phraseprefix,
					},
				},
			},
		},
	}
}

func ratings(items []judgment.RatedDocument, index string) []types.DocumentRating {
	out := make([]types.DocumentRating, 0, len(items))
	for _, it := range items {
		out = append(out, types.DocumentRating{
			Index_: index,
			Id_:    it.Hash,
			Rating: it.Rating,
		})
	}
	return out
}
