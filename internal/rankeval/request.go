package rankeval

import (
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"
)

// Request is one entry of the rank eval "requests" array.
type Request struct {
	ID      string                 `json:"id"`
	Request SearchRequest          `json:"request"`
	Ratings []types.DocumentRating `json:"ratings"`
}

type SearchRequest struct {
	Query Query `json:"query"`
}

// Query covers the subset of the query DSL the translator emits.
type Query struct {
	Bool       *BoolQuery       `json:"bool,omitempty"`
	MultiMatch *MultiMatchQuery `json:"multi_match,omitempty"`
}

type BoolQuery struct {
	MinimumShouldMatch int     `json:"minimum_should_match"`
	Should             []Query `json:"should"`
}

// MultiMatchQuery always serializes fields, an empty list included.
type MultiMatchQuery struct {
	Fields    []string                    `json:"fields"`
	Fuzziness *int                        `json:"fuzziness,omitempty"`
	Operator  operator.Operator           `json:"operator"`
	Query     string                      `json:"query"`
	Type      textquerytype.TextQueryType `json:"type"`
}
