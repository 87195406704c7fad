// Package service contains the application use cases of the questionnaire:
// stateless assessments and the answer session flow (start, answer, result,
// reset). It orchestrates the catalog provider, the session store and the
// scoring engine, and never depends on a concrete storage implementation.
//
// Error handling:
//   - Expected conditions are sentinel errors (ErrIncompleteAnswers,
//     ErrUnknownQuestion, ErrUnknownOption, ErrSessionNotFound) checked with errors.Is.
//   - Catalog failures propagate the catalog package's sentinels unchanged.
//   - Unexpected failures are wrapped in ServiceError with the failing operation.
package service
