package domain

// CategoryScore is the computed score of one category. It is derived from an
// AnswerSet and the catalog on demand and never persisted.
type CategoryScore struct {
	CategoryID string  `json:"id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}
