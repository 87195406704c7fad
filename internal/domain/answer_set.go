package domain

import "sort"

// AnswerSet maps a question ID to the value of the selected option.
// A question appears at most once; answering again replaces the selection.
type AnswerSet map[string]string

// Clone returns an independent copy of the answer set. Scoring always works on
// a clone so concurrent answer updates cannot be observed mid-computation.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// QuestionIDs returns the answered question IDs in ascending order.
func (a AnswerSet) QuestionIDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Missing returns the IDs of questions that have no answer, in catalog order.
func (a AnswerSet) Missing(questions []Question) []string {
	var missing []string
	for _, q := range questions {
		if _, ok := a[q.ID]; !ok {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Covers reports whether every question has an answer.
func (a AnswerSet) Covers(questions []Question) bool {
	return len(a.Missing(questions)) == 0
}
