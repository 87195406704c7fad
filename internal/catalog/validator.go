package catalog

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/constitution-api/internal/domain"
)

// Validator checks catalog records before they reach the scoring engine.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	minScore int
	maxScore int
}

// NewValidator creates a Validator accepting option scores in [minScore, maxScore].
func NewValidator(minScore, maxScore int) *Validator {
	return &Validator{
		validate: validator.New(),
		minScore: minScore,
		maxScore: maxScore,
	}
}

// Question applies the struct tag rules and the option score range.
func (v *Validator) Question(q *domain.Question) error {
	if err := v.validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return q.Validate(v.minScore, v.maxScore)
}

// Category applies the struct tag rules of a category.
func (v *Validator) Category(c *domain.Category) error {
	if err := v.validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return c.Validate()
}
