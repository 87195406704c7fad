package scoring

import (
	"math"

	"github.com/phrazzld/constitution-api/internal/domain"
)

// SkipReason explains why an answer, or one of its contributions, was left out
// of the computation.
type SkipReason string

// Skip reasons reported by computeScores.
const (
	SkipUnknownQuestion SkipReason = "unknown_question"
	SkipUnknownOption   SkipReason = "unknown_option"
	SkipScoreOutOfRange SkipReason = "score_out_of_range"
	SkipUnknownCategory SkipReason = "unknown_category"
)

// SkippedAnswer records a data integrity problem found while scoring. For
// SkipUnknownCategory only the contribution to CategoryID was dropped; the
// answer still counted for the question's other categories.
type SkippedAnswer struct {
	QuestionID string     `json:"question_id"`
	Value      string     `json:"value"`
	CategoryID string     `json:"category_id,omitempty"`
	Reason     SkipReason `json:"reason"`
}

// Result is the output of one scoring run.
type Result struct {
	Scores  []domain.CategoryScore
	Skipped []SkippedAnswer
}

// accumulator sums option scores for one category.
type accumulator struct {
	total int
	count int
}

// computeScores aggregates answers into one score per category.
//
// Every category starts with an empty accumulator so that categories without a
// single contributing answer are still reported, with score 0. Each answer is
// resolved against the catalog; answers referencing an unknown question or
// option, or an option whose score is outside the configured range, are skipped.
// A related category missing from the category list drops only that
// contribution. The average of each category is multiplied by
// params.ScaleFactor and rounded to params.Precision decimals.
//
// The result lists categories in the order of the categories slice. Totals are
// integers, so the result does not depend on map iteration order; answers are
// still visited in sorted question order to keep Skipped reproducible.
func computeScores(
	answers domain.AnswerSet,
	questions []domain.Question,
	categories []domain.Category,
	params *Params,
) Result {
	acc := make(map[string]*accumulator, len(categories))
	for _, c := range categories {
		acc[c.ID] = &accumulator{}
	}

	byID := make(map[string]*domain.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	var skipped []SkippedAnswer
	for _, questionID := range answers.QuestionIDs() {
		value := answers[questionID]

		question, ok := byID[questionID]
		if !ok {
			skipped = append(skipped, SkippedAnswer{
				QuestionID: questionID, Value: value, Reason: SkipUnknownQuestion,
			})
			continue
		}

		option, ok := question.Option(value)
		if !ok {
			skipped = append(skipped, SkippedAnswer{
				QuestionID: questionID, Value: value, Reason: SkipUnknownOption,
			})
			continue
		}

		if option.Score < params.MinOptionScore || option.Score > params.MaxOptionScore {
			skipped = append(skipped, SkippedAnswer{
				QuestionID: questionID, Value: value, Reason: SkipScoreOutOfRange,
			})
			continue
		}

		for _, categoryID := range question.RelatedCategories {
			a, ok := acc[categoryID]
			if !ok {
				skipped = append(skipped, SkippedAnswer{
					QuestionID: questionID,
					Value:      value,
					CategoryID: categoryID,
					Reason:     SkipUnknownCategory,
				})
				continue
			}
			a.total += option.Score
			a.count++
		}
	}

	scores := make([]domain.CategoryScore, 0, len(categories))
	for _, c := range categories {
		scores = append(scores, domain.CategoryScore{
			CategoryID: c.ID,
			Name:       c.Name,
			Score:      scaledAverage(acc[c.ID], params),
		})
	}

	return Result{Scores: scores, Skipped: skipped}
}

// scaledAverage returns the rounded, scaled average of a, or 0 when nothing
// contributed to it.
func scaledAverage(a *accumulator, params *Params) float64 {
	if a == nil || a.count == 0 {
		return 0
	}
	average := float64(a.total) / float64(a.count) * params.ScaleFactor
	return roundTo(average, params.Precision)
}

// roundTo rounds v to the given number of decimals, halves away from zero.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
