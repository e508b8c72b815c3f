package rankeval

import "github.com/elastic/go-elasticsearch/v8/typedapi/types"

// Body is the full _rank_eval payload.
type Body struct {
	Requests []Request            `json:"requests"`
	Metric   types.RankEvalMetric `json:"metric"`
}

func NewBody(reqs []Request, m Metric) Body {
	if reqs == nil {
		reqs = []Request{}
	}
	return Body{
		Requests: reqs,
		Metric:   m.ES(),
	}
}
