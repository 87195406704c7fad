package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/constitution-api/internal/catalog"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/domain/scoring"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/store"
)

// CatalogProvider supplies the validated questionnaire catalog.
// *catalog.Provider satisfies it.
type CatalogProvider interface {
	Get(ctx context.Context) (*catalog.Snapshot, error)
}

// Profile is one result row: a category score enriched with the category's
// guidance text.
type Profile struct {
	CategoryID     string   `json:"id"`
	Name           string   `json:"name"`
	Score          float64  `json:"score"`
	High           bool     `json:"high"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
	Tags           []string `json:"tags"`
}

// Assessment is the outcome of scoring one answer set.
type Assessment struct {
	Scores   []domain.CategoryScore  `json:"scores"`
	Verdict  scoring.Verdict         `json:"verdict"`
	Profiles []Profile               `json:"profiles"`
	Skipped  []scoring.SkippedAnswer `json:"skipped,omitempty"`
}

// Progress reports how much of the catalog a session has answered.
type Progress struct {
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Complete reports whether every question has an answer.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Answered >= p.Total
}

// SessionView is an answer session together with its progress.
type SessionView struct {
	Session  *domain.AnswerSession
	Progress Progress
}

// AssessmentService provides the questionnaire use cases.
type AssessmentService interface {
	// Questions returns the catalog questions in display order.
	Questions(ctx context.Context) ([]domain.Question, error)

	// Categories returns the catalog categories in display order.
	Categories(ctx context.Context) ([]domain.Category, error)

	// Evaluate scores an answer set without storing it. Unless allowPartial is
	// set, every catalog question must be answered.
	Evaluate(ctx context.Context, answers domain.AnswerSet, allowPartial bool) (*Assessment, error)

	// StartSession creates an empty answer session.
	StartSession(ctx context.Context) (*SessionView, error)

	// GetSession returns a session and its progress.
	GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// RecordAnswer stores one answer after checking it against the catalog.
	RecordAnswer(ctx context.Context, id uuid.UUID, questionID, value string) (*SessionView, error)

	// SessionResult scores a session. Every question must be answered.
	SessionResult(ctx context.Context, id uuid.UUID) (*Assessment, error)

	// ResetSession clears all answers so the questionnaire can be retaken.
	ResetSession(ctx context.Context, id uuid.UUID) (*SessionView, error)

	// DeleteSession discards a session.
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type assessmentService struct {
	catalog  CatalogProvider
	sessions store.AnswerSessionStore
	scoring  scoring.Service
	logger   *slog.Logger
}

var _ AssessmentService = (*assessmentService)(nil)

// NewAssessmentService creates an AssessmentService.
// It returns an error if any of the required dependencies are nil.
func NewAssessmentService(
	catalogProvider CatalogProvider,
	sessions store.AnswerSessionStore,
	scoringService scoring.Service,
	logger *slog.Logger,
) (AssessmentService, error) {
	if catalogProvider == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "catalog provider cannot be nil"}
	}
	if sessions == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "session store cannot be nil"}
	}
	if scoringService == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "scoring service cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &assessmentService{
		catalog:  catalogProvider,
		sessions: sessions,
		scoring:  scoringService,
		logger:   logger.With(slog.String("component", "assessment_service")),
	}, nil
}

func (s *assessmentService) Questions(ctx context.Context) ([]domain.Question, error) {
	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Questions, nil
}

func (s *assessmentService) Categories(ctx context.Context) ([]domain.Category, error) {
	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Categories, nil
}

func (s *assessmentService) Evaluate(
	ctx context.Context,
	answers domain.AnswerSet,
	allowPartial bool,
) (*Assessment, error) {
	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	if !allowPartial {
		if err := requireComplete(answers, snapshot); err != nil {
			return nil, err
		}
	}

	return s.assess(ctx, answers, snapshot)
}

func (s *assessmentService) StartSession(ctx context.Context) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	session := domain.NewAnswerSession()
	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save new session", slog.String("error", err.Error()))
		return nil, NewServiceError("start_session", "failed to save session", err)
	}

	log.Debug("answer session started", slog.String("session_id", session.ID.String()))
	return newSessionView(session, snapshot), nil
}

func (s *assessmentService) GetSession(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_session", "failed to load session", err)
	}
	return newSessionView(session, snapshot), nil
}

func (s *assessmentService) RecordAnswer(
	ctx context.Context,
	id uuid.UUID,
	questionID, value string,
) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", id.String()),
		slog.String("question_id", questionID),
	)

	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	question, ok := snapshot.Question(questionID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	if _, ok := question.Option(value); !ok {
		return nil, fmt.Errorf("%w: %q for question %q", ErrUnknownOption, value, questionID)
	}

	session, err := s.sessions.SetAnswer(ctx, id, questionID, value)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			log.Error("failed to save answer", slog.String("error", err.Error()))
		}
		return nil, NewServiceError("record_answer", "failed to save answer", err)
	}

	log.Debug("answer recorded")
	return newSessionView(session, snapshot), nil
}

func (s *assessmentService) SessionResult(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("session_result", "failed to load session", err)
	}

	if err := requireComplete(session.Answers, snapshot); err != nil {
		return nil, err
	}

	return s.assess(ctx, session.Answers, snapshot)
}

func (s *assessmentService) ResetSession(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.catalog.Get(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.ClearAnswers(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			log.Error("failed to reset session",
				slog.String("session_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, NewServiceError("reset_session", "failed to reset session", err)
	}

	return newSessionView(session, snapshot), nil
}

func (s *assessmentService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return NewServiceError("delete_session", "failed to delete session", err)
	}
	return nil
}

// assess runs the scoring engine and classifier over a validated catalog.
func (s *assessmentService) assess(
	ctx context.Context,
	answers domain.AnswerSet,
	snapshot *catalog.Snapshot,
) (*Assessment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.scoring.ComputeScores(answers, snapshot.Questions, snapshot.Categories)
	if err != nil {
		log.Error("failed to compute scores", slog.String("error", err.Error()))
		return nil, err
	}

	for _, skipped := range result.Skipped {
		log.Warn("answer skipped during scoring",
			slog.String("question_id", skipped.QuestionID),
			slog.String("value", skipped.Value),
			slog.String("category_id", skipped.CategoryID),
			slog.String("reason", string(skipped.Reason)))
	}

	verdict := s.scoring.Classify(result.Scores)
	highThreshold := s.scoring.Params().HighThreshold

	profiles := make([]Profile, 0, len(result.Scores))
	for _, score := range result.Scores {
		profile := Profile{
			CategoryID: score.CategoryID,
			Name:       score.Name,
			Score:      score.Score,
			High:       score.Score >= highThreshold,
			Tags:       []string{},
		}
		if category, ok := snapshot.Category(score.CategoryID); ok {
			profile.Description = category.Description
			profile.Recommendation = category.Recommendation
			if len(category.Tags) > 0 {
				profile.Tags = category.Tags
			}
		}
		profiles = append(profiles, profile)
	}

	log.Info("assessment computed",
		slog.Int("answers", len(answers)),
		slog.Int("skipped", len(result.Skipped)),
		slog.String("verdict", string(verdict.Kind)))

	return &Assessment{
		Scores:   result.Scores,
		Verdict:  verdict,
		Profiles: profiles,
		Skipped:  result.Skipped,
	}, nil
}

func requireComplete(answers domain.AnswerSet, snapshot *catalog.Snapshot) error {
	missing := answers.Missing(snapshot.Questions)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %d of %d unanswered", ErrIncompleteAnswers, len(missing), len(snapshot.Questions))
	}
	return nil
}

func newSessionView(session *domain.AnswerSession, snapshot *catalog.Snapshot) *SessionView {
	answered := 0
	for questionID := range session.Answers {
		if _, ok := snapshot.Question(questionID); ok {
			answered++
		}
	}
	return &SessionView{
		Session: session,
		Progress: Progress{
			Answered: answered,
			Total:    len(snapshot.Questions),
		},
	}
}
