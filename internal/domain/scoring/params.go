package scoring

import "github.com/phrazzld/constitution-api/internal/domain"

// Default scoring constants. The thresholds drive the classifier; the scale
// factor maps an average option score of 5 to 100.
const (
	DefaultScaleFactor       = 20.0
	DefaultPrecision         = 1
	DefaultMinOptionScore    = 1
	DefaultMaxOptionScore    = 5
	DefaultHighThreshold     = 40.0
	DefaultLowThreshold      = 30.0
	DefaultBaselineThreshold = 60.0
)

// Params defines all configurable parameters of the scoring engine and classifier.
type Params struct {
	// Score scaling
	ScaleFactor float64
	Precision   int

	// Valid option score range, inclusive
	MinOptionScore int
	MaxOptionScore int

	// Classification
	BaselineCategoryID string
	HighThreshold      float64
	LowThreshold       float64
	BaselineThreshold  float64
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance.
// Nil fields and an empty BaselineCategoryID keep the defaults, so an explicit
// zero such as a LowThreshold of 0 is honored.
type ParamsConfig struct {
	ScaleFactor *float64
	Precision   *int

	MinOptionScore *int
	MaxOptionScore *int

	BaselineCategoryID string
	HighThreshold      *float64
	LowThreshold       *float64
	BaselineThreshold  *float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		ScaleFactor:        DefaultScaleFactor,
		Precision:          DefaultPrecision,
		MinOptionScore:     DefaultMinOptionScore,
		MaxOptionScore:     DefaultMaxOptionScore,
		BaselineCategoryID: domain.DefaultBaselineCategoryID,
		HighThreshold:      DefaultHighThreshold,
		LowThreshold:       DefaultLowThreshold,
		BaselineThreshold:  DefaultBaselineThreshold,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	override(&params.ScaleFactor, config.ScaleFactor)
	override(&params.Precision, config.Precision)

	override(&params.MinOptionScore, config.MinOptionScore)
	override(&params.MaxOptionScore, config.MaxOptionScore)

	if config.BaselineCategoryID != "" {
		params.BaselineCategoryID = config.BaselineCategoryID
	}
	override(&params.HighThreshold, config.HighThreshold)
	override(&params.LowThreshold, config.LowThreshold)
	override(&params.BaselineThreshold, config.BaselineThreshold)

	return params
}

func override[T any](dst *T, value *T) {
	if value != nil {
		*dst = *value
	}
}

// Validate checks that the parameters are internally consistent.
func (p *Params) Validate() error {
	if p.ScaleFactor <= 0 {
		return ErrInvalidParams
	}
	if p.Precision < 0 {
		return ErrInvalidParams
	}
	if p.MinOptionScore > p.MaxOptionScore {
		return ErrInvalidParams
	}
	if p.BaselineCategoryID == "" {
		return ErrInvalidParams
	}
	if p.LowThreshold > p.HighThreshold {
		return ErrInvalidParams
	}
	return nil
}
