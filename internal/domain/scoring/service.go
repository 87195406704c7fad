package scoring

import (
	"errors"

	"github.com/phrazzld/constitution-api/internal/domain"
)

// Common errors
var (
	ErrNoCategories  = errors.New("category list cannot be empty")
	ErrInvalidParams = errors.New("invalid scoring parameters")
)

// Service defines the interface for scoring and classification operations
type Service interface {
	// ComputeScores turns an answer set into one score per category.
	// It returns ErrNoCategories when categories is empty; malformed answers
	// never fail the call and are reported in Result.Skipped instead.
	ComputeScores(
		answers domain.AnswerSet,
		questions []domain.Question,
		categories []domain.Category,
	) (Result, error)

	// Classify derives the verdict from a score vector. It never fails.
	Classify(scores []domain.CategoryScore) Verdict

	// Params returns the parameters the service was built with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// ComputeScores implements the Service interface
func (s *defaultService) ComputeScores(
	answers domain.AnswerSet,
	questions []domain.Question,
	categories []domain.Category,
) (Result, error) {
	if len(categories) == 0 {
		return Result{}, ErrNoCategories
	}

	// Work on a snapshot so callers may keep mutating their answer set
	return computeScores(answers.Clone(), questions, categories, s.params), nil
}

// Classify implements the Service interface
func (s *defaultService) Classify(scores []domain.CategoryScore) Verdict {
	return classify(scores, s.params)
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}
