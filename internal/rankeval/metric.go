package rankeval

import (
	"fmt"
	"strings"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/elastic/go-elasticsearch/v8/typedapi/some"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

type Kind string

const (
	Precision              Kind = "precision"
	MeanReciprocalRank     Kind = "mean_reciprocal_rank"
	DCG                    Kind = "dcg"
	ExpectedReciprocalRank Kind = "expected_reciprocal_rank"
)

const (
	DefaultKind = Precision
	DefaultK    = 20
)

// Kinds lists the supported metrics in the order they are shown to users.
var Kinds = []Kind{Precision, MeanReciprocalRank, DCG, ExpectedReciprocalRank}

func (k Kind) String() string { return string(k) }

// ParseKind resolves a metric name given on the command line.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", apperr.NewValidation(fmt.Sprintf("unknown metric %q, expected one of %s", name, kindList()))
}

func kindList() string {
	names := make([]string, len(Kinds))
	for i, k := range Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// Metric is the single evaluation metric of a request body.
type Metric interface {
	Kind() Kind
	Cutoff() int
	ES() types.RankEvalMetric
}

type PrecisionParams struct {
	K                       int
	RelevantRatingThreshold int
	IgnoreUnlabeled         bool
}

func (p PrecisionParams) Kind() Kind  { return Precision }
func (p PrecisionParams) Cutoff() int { return p.K }

func (p PrecisionParams) ES() types.RankEvalMetric {
	return types.RankEvalMetric{
		Precision: &types.RankEvalMetricPrecision{
			K:                       some.Int(p.K),
			RelevantRatingThreshold: some.Int(p.RelevantRatingThreshold),
			IgnoreUnlabeled:         some.Bool(p.IgnoreUnlabeled),
		},
	}
}

type MeanReciprocalRankParams struct {
	K                       int
	RelevantRatingThreshold int
}

func (p MeanReciprocalRankParams) Kind() Kind  { return MeanReciprocalRank }
func (p MeanReciprocalRankParams) Cutoff() int { return p.K }

func (p MeanReciprocalRankParams) ES() types.RankEvalMetric {
	return types.RankEvalMetric{
		MeanReciprocalRank: &types.RankEvalMetricMeanReciprocalRank{
			K:                       some.Int(p.K),
			RelevantRatingThreshold: some.Int(p.RelevantRatingThreshold),
		},
	}
}

type DCGParams struct {
	K         int
	Normalize bool
}

func (p DCGParams) Kind() Kind  { return DCG }
func (p DCGParams) Cutoff() int { return p.K }

func (p DCGParams) ES() types.RankEvalMetric {
	return types.RankEvalMetric{
		Dcg: &types.RankEvalMetricDiscountedCumulativeGain{
			K:         some.Int(p.K),
			Normalize: some.Bool(p.Normalize),
		},
	}
}

type ExpectedReciprocalRankParams struct {
	K                int
	MaximumRelevance int
}

func (p ExpectedReciprocalRankParams) Kind() Kind  { return ExpectedReciprocalRank }
func (p ExpectedReciprocalRankParams) Cutoff() int { return p.K }

func (p ExpectedReciprocalRankParams) ES() types.RankEvalMetric {
	return types.RankEvalMetric{
		ExpectedReciprocalRank: &types.RankEvalMetricExpectedReciprocalRank{
			K:                some.Int(p.K),
			MaximumRelevance: p.MaximumRelevance,
		},
	}
}

// NewMetric returns the fixed parameter set of the given kind with k applied.
func NewMetric(kind Kind, k int) (Metric, error) {
	if k <= 0 {
		return nil, apperr.NewValidation(fmt.Sprintf("k must be positive, got %d", k))
	}

	switch kind {
	case Precision:
		return PrecisionParams{K: k, RelevantRatingThreshold: 1, IgnoreUnlabeled: false}, nil
	case MeanReciprocalRank:
		return MeanReciprocalRankParams{K: k, RelevantRatingThreshold: 1}, nil
	case DCG:
		return DCGParams{K: k, Normalize: true}, nil
	case ExpectedReciprocalRank:
		return ExpectedReciprocalRankParams{K: k, MaximumRelevance: 3}, nil
	default:
		return nil, apperr.NewValidation(fmt.Sprintf("unknown metric %q, expected one of %s", kind, kindList()))
	}
}
