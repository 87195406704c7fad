package domain

import "fmt"

// QuestionTypeSingle is the only question type the questionnaire uses:
// the respondent picks exactly one option.
const QuestionTypeSingle = "single"

// Option is one selectable answer of a Question.
type Option struct {
	Value string `json:"value" validate:"required"`
	Text  string `json:"text"  validate:"required"`
	Score int    `json:"score"`
}

// Question is a catalog entry. Answering it contributes the selected option's
// score to every category listed in RelatedCategories.
type Question struct {
	ID                string   `json:"id"                   validate:"required"`
	Prompt            string   `json:"question"             validate:"required"`
	Type              string   `json:"type"                 validate:"omitempty,oneof=single"`
	Options           []Option `json:"options"              validate:"required,min=1,unique=Value,dive"`
	RelatedCategories []string `json:"relatedConstitutions" validate:"required,min=1,unique,dive,required"`
	SortOrder         int      `json:"sort_order"`
}

// Option returns the option with the given value.
func (q *Question) Option(value string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// MaxScore returns the highest option score of the question.
func (q *Question) MaxScore() int {
	maxScore := 0
	for i, opt := range q.Options {
		if i == 0 || opt.Score > maxScore {
			maxScore = opt.Score
		}
	}
	return maxScore
}

// Validate checks the structural invariants of the question and that every
// option score lies within [minScore, maxScore].
func (q *Question) Validate(minScore, maxScore int) error {
	if q.ID == "" {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if q.Prompt == "" {
		return NewValidationError("question", "cannot be empty", ErrEmptyContent)
	}
	if q.Type != "" && q.Type != QuestionTypeSingle {
		return NewValidationError("type", fmt.Sprintf("has unsupported value %q", q.Type), ErrValidation)
	}
	if len(q.Options) == 0 {
		return NewValidationError("options", "cannot be empty", ErrEmptyContent)
	}
	if len(q.RelatedCategories) == 0 {
		return NewValidationError("relatedConstitutions", "cannot be empty", ErrEmptyContent)
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if opt.Value == "" {
			return NewValidationError("options.value", "cannot be empty", ErrEmptyContent)
		}
		if _, dup := seen[opt.Value]; dup {
			return NewValidationError("options.value", fmt.Sprintf("%q appears twice", opt.Value), ErrDuplicateValue)
		}
		seen[opt.Value] = struct{}{}

		if opt.Score < minScore || opt.Score > maxScore {
			return NewValidationError(
				"options.score",
				fmt.Sprintf("%d is outside [%d, %d]", opt.Score, minScore, maxScore),
				ErrScoreOutOfRange,
			)
		}
	}

	related := make(map[string]struct{}, len(q.RelatedCategories))
	for _, id := range q.RelatedCategories {
		if id == "" {
			return NewValidationError("relatedConstitutions", "contains an empty id", ErrInvalidID)
		}
		if _, dup := related[id]; dup {
			return NewValidationError("relatedConstitutions", fmt.Sprintf("%q appears twice", id), ErrDuplicateValue)
		}
		related[id] = struct{}{}
	}

	return nil
}

// FrequencyOptions returns the five-point frequency scale every seeded
// question uses, scored 1 (never) to 5 (always).
func FrequencyOptions() []Option {
	return []Option{
		{Value: "1", Text: "从不", Score: 1},
		{Value: "2", Text: "偶尔", Score: 2},
		{Value: "3", Text: "有时", Score: 3},
		{Value: "4", Text: "经常", Score: 4},
		{Value: "5", Text: "总是", Score: 5},
	}
}
