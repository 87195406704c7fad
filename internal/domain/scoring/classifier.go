package scoring

import "github.com/phrazzld/constitution-api/internal/domain"

// VerdictKind is the outcome category of a classification.
type VerdictKind string

// Verdict kinds, in the priority order the classifier evaluates them.
const (
	VerdictBaseline     VerdictKind = "baseline"
	VerdictSingle       VerdictKind = "single"
	VerdictMixed        VerdictKind = "mixed"
	VerdictUndetermined VerdictKind = "undetermined"
)

// Verdict labels.
const (
	LabelBaseline     = "baseline type"
	LabelSinglePrefix = "belongs to "
	LabelMixed        = "mixed type"
	LabelUndetermined = "type not yet determined"
)

// Verdict is the single classification derived from a score vector. Label is
// the human-readable verdict string; CategoryID is set for VerdictBaseline and
// VerdictSingle.
type Verdict struct {
	Kind       VerdictKind `json:"kind"`
	CategoryID string      `json:"category_id,omitempty"`
	Label      string      `json:"label"`
}

// String returns the verdict label.
func (v Verdict) String() string {
	return v.Label
}

// classify applies the decision rules to scores, in this order:
//
//  1. the baseline category scores at least params.BaselineThreshold and every
//     other category is below params.LowThreshold: baseline type;
//  2. exactly one non-baseline category reaches params.HighThreshold: that category;
//  3. two or more reach it: mixed type;
//  4. otherwise: type not yet determined.
//
// The baseline is matched by category ID and counts as 0 when absent. Empty
// input falls through to undetermined.
func classify(scores []domain.CategoryScore, params *Params) Verdict {
	var baseline float64
	others := make([]domain.CategoryScore, 0, len(scores))
	for _, s := range scores {
		if s.CategoryID == params.BaselineCategoryID {
			baseline = s.Score
			continue
		}
		others = append(others, s)
	}

	var high []domain.CategoryScore
	othersQuiescent := true
	for _, s := range others {
		if s.Score >= params.HighThreshold {
			high = append(high, s)
		}
		if s.Score >= params.LowThreshold {
			othersQuiescent = false
		}
	}

	switch {
	case baseline >= params.BaselineThreshold && othersQuiescent:
		return Verdict{
			Kind:       VerdictBaseline,
			CategoryID: params.BaselineCategoryID,
			Label:      LabelBaseline,
		}
	case len(high) == 1:
		return Verdict{
			Kind:       VerdictSingle,
			CategoryID: high[0].CategoryID,
			Label:      LabelSinglePrefix + high[0].Name,
		}
	case len(high) > 1:
		return Verdict{Kind: VerdictMixed, Label: LabelMixed}
	default:
		return Verdict{Kind: VerdictUndetermined, Label: LabelUndetermined}
	}
}
