package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	assert.Equal(t, 20.0, params.ScaleFactor)
	assert.Equal(t, 1, params.Precision)
	assert.Equal(t, 1, params.MinOptionScore)
	assert.Equal(t, 5, params.MaxOptionScore)
	assert.Equal(t, "pinghe", params.BaselineCategoryID)
	assert.Equal(t, 40.0, params.HighThreshold)
	assert.Equal(t, 30.0, params.LowThreshold)
	assert.Equal(t, 60.0, params.BaselineThreshold)
	assert.NoError(t, params.Validate())
}

func TestNewParamsOverrides(t *testing.T) {
	t.Parallel()

	params := NewParams(ParamsConfig{
		ScaleFactor:        ptr(25.0),
		MaxOptionScore:     ptr(4),
		BaselineCategoryID: "balanced",
		LowThreshold:       ptr(20.0),
	})

	assert.Equal(t, 25.0, params.ScaleFactor)
	assert.Equal(t, 4, params.MaxOptionScore)
	assert.Equal(t, "balanced", params.BaselineCategoryID)
	assert.Equal(t, 20.0, params.LowThreshold)

	// Untouched fields keep their defaults
	assert.Equal(t, 1, params.MinOptionScore)
	assert.Equal(t, 40.0, params.HighThreshold)
	assert.Equal(t, 60.0, params.BaselineThreshold)
}

func TestNewParamsExplicitZero(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		config ParamsConfig
		check  func(t *testing.T, p *Params)
	}{
		{
			name:   "zero low threshold",
			config: ParamsConfig{LowThreshold: ptr(0.0)},
			check:  func(t *testing.T, p *Params) { assert.Zero(t, p.LowThreshold) },
		},
		{
			name:   "zero baseline threshold",
			config: ParamsConfig{BaselineThreshold: ptr(0.0)},
			check:  func(t *testing.T, p *Params) { assert.Zero(t, p.BaselineThreshold) },
		},
		{
			name:   "zero precision",
			config: ParamsConfig{Precision: ptr(0)},
			check:  func(t *testing.T, p *Params) { assert.Zero(t, p.Precision) },
		},
		{
			name:   "zero min option score",
			config: ParamsConfig{MinOptionScore: ptr(0)},
			check:  func(t *testing.T, p *Params) { assert.Zero(t, p.MinOptionScore) },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := NewParams(tc.config)
			tc.check(t, params)
			assert.NoError(t, params.Validate())
		})
	}

	// A zero scale factor is applied and then rejected rather than silently replaced.
	params := NewParams(ParamsConfig{ScaleFactor: ptr(0.0)})
	assert.Zero(t, params.ScaleFactor)
	assert.ErrorIs(t, params.Validate(), ErrInvalidParams)
}

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(p *Params)
	}{
		{name: "zero scale factor", mutate: func(p *Params) { p.ScaleFactor = 0 }},
		{name: "negative precision", mutate: func(p *Params) { p.Precision = -1 }},
		{name: "inverted score range", mutate: func(p *Params) { p.MinOptionScore = 6 }},
		{name: "empty baseline", mutate: func(p *Params) { p.BaselineCategoryID = "" }},
		{name: "low above high", mutate: func(p *Params) { p.LowThreshold = 50 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			params := NewDefaultParams()
			tc.mutate(params)
			assert.ErrorIs(t, params.Validate(), ErrInvalidParams)
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
