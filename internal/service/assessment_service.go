package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"go.uber.org/zap"
)

type AssessmentService struct {
	assessments AssessmentStore
	cache       AssessmentCache
	logger      *zap.Logger
}

func NewAssessmentService(assessments AssessmentStore, cache AssessmentCache, logger *zap.Logger) *AssessmentService {
	if cache == nil {
		cache = nopCache{}
	}
	return &AssessmentService{
		assessments: assessments,
		cache:       cache,
		logger:      logger,
	}
}

// AssessmentInput поля теста, которые задаёт администратор
type AssessmentInput struct {
	Title       string
	Description string
	Type        model.AssessmentType
	Questions   []model.Question
	IsActive    bool
	CourseID    *int64
}

func (in AssessmentInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return model.ValidationError("title is required")
	}
	if !in.Type.Valid() {
		return model.ValidationError("unknown assessment type %q", in.Type)
	}
	if in.Type == model.AssessmentTypeCourse && in.CourseID == nil {
		return model.ValidationError("courseId is required for course assessments")
	}
	for i, q := range in.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return model.ValidationError("question %d: text is required", i+1)
		}
		if len(q.Options) < 2 {
			return model.ValidationError("question %d: at least two options are required", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return model.ValidationError("question %d: correct answer is out of range", i+1)
		}
	}
	return nil
}

// Create создаёт тест
func (s *AssessmentService) Create(ctx context.Context, adminID int64, in AssessmentInput) (*model.Assessment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a := &model.Assessment{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Type:        in.Type,
		Questions:   in.Questions,
		IsActive:    in.IsActive,
		CourseID:    in.CourseID,
		CreatedBy:   adminID,
	}
	if a.Questions == nil {
		a.Questions = []model.Question{}
	}

	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Assessment created",
		zap.Int64("assessment_id", a.ID),
		zap.Int("questions", len(a.Questions)),
	)

	return a, nil
}

// Update заменяет поля теста. Уже сданные попытки не пересчитываются.
func (s *AssessmentService) Update(ctx context.Context, id int64, in AssessmentInput) (*model.Assessment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	a, err := s.GetAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Title = strings.TrimSpace(in.Title)
	a.Description = in.Description
	a.Type = in.Type
	a.Questions = in.Questions
	a.IsActive = in.IsActive
	a.CourseID = in.CourseID
	if a.Questions == nil {
		a.Questions = []model.Question{}
	}

	if err := s.assessments.Update(ctx, a); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Assessment updated", zap.Int64("assessment_id", id))

	return a, nil
}

// Delete удаляет тест вместе с попытками
func (s *AssessmentService) Delete(ctx context.Context, id int64) error {
	if err := s.assessments.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("Assessment deleted", zap.Int64("assessment_id", id))
	return nil
}

// GetAdmin получает тест вместе с правильными ответами
func (s *AssessmentService) GetAdmin(ctx context.Context, id int64) (*model.Assessment, error) {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil {
		return nil, model.ErrAssessmentNotFound
	}
	return a, nil
}

// List получает активные тесты без правильных ответов
func (s *AssessmentService) List(ctx context.Context, assessmentType string, courseID *int64) ([]*model.PublicAssessment, error) {
	filter := model.AssessmentFilter{
		Type:       model.AssessmentType(assessmentType),
		CourseID:   courseID,
		ActiveOnly: true,
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, model.ValidationError("unknown assessment type %q", assessmentType)
	}

	key := listCacheKey(filter)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	items, err := s.assessments.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}

	result := make([]*model.PublicAssessment, 0, len(items))
	for _, a := range items {
		result = append(result, a.Public())
	}

	s.cache.Set(ctx, key, result)
	return result, nil
}

func listCacheKey(filter model.AssessmentFilter) string {
	course := "-"
	if filter.CourseID != nil {
		course = strconv.FormatInt(*filter.CourseID, 10)
	}
	typ := string(filter.Type)
	if typ == "" {
		typ = "-"
	}
	return "type:" + typ + ":course:" + course
}

// Get получает активный тест без правильных ответов
func (s *AssessmentService) Get(ctx context.Context, id int64) (*model.PublicAssessment, error) {
	a, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil || !a.IsActive {
		return nil, model.ErrAssessmentNotFound
	}
	return a.Public(), nil
}

// SubmitResult результат проверки ответов
type SubmitResult struct {
	AttemptID      int64                `json:"attemptId"`
	Score          float64              `json:"score"`
	Passed         bool                 `json:"passed"`
	TotalQuestions int                  `json:"totalQuestions"`
	CorrectAnswers int                  `json:"correctAnswers"`
	AssessmentType model.AssessmentType `json:"assessmentType"`
}

// Submit проверяет ответы и сохраняет единственную попытку пользователя
func (s *AssessmentService) Submit(ctx context.Context, assessmentID, userID int64, answers []int) (*SubmitResult, error) {
	a, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil {
		return nil, model.ErrAssessmentNotFound
	}
	if !a.IsActive {
		return nil, model.ErrAssessmentInactive
	}
	if len(a.Questions) == 0 {
		return nil, model.ValidationError("assessment has no questions")
	}

	existing, err := s.assessments.FindAttempt(ctx, assessmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("find attempt: %w", err)
	}
	if existing != nil {
		return nil, model.ErrAttemptExists
	}

	correct, score, passed := a.Grade(answers)

	if answers == nil {
		answers = []int{}
	}
	attempt := &model.AssessmentAttempt{
		AssessmentID:   assessmentID,
		UserID:         userID,
		Answers:        answers,
		Score:          score,
		Passed:         passed,
		CorrectAnswers: correct,
		TotalQuestions: len(a.Questions),
		AssessmentType: a.Type,
	}

	// Уникальный индекс ловит параллельную отправку
	if err := s.assessments.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	s.logger.Info("Assessment submitted",
		zap.Int64("attempt_id", attempt.ID),
		zap.Int64("assessment_id", assessmentID),
		zap.Int64("user_id", userID),
		zap.Float64("score", score),
		zap.Bool("passed", passed),
	)

	return &SubmitResult{
		AttemptID:      attempt.ID,
		Score:          score,
		Passed:         passed,
		TotalQuestions: attempt.TotalQuestions,
		CorrectAnswers: correct,
		AssessmentType: a.Type,
	}, nil
}

// Result получает попытку. Видит владелец или администратор.
func (s *AssessmentService) Result(ctx context.Context, actor model.Actor, attemptID int64) (*model.AssessmentAttempt, error) {
	attempt, err := s.assessments.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt == nil {
		return nil, model.ErrAttemptNotFound
	}
	if attempt.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, model.ErrNotResultOwner
	}
	return attempt, nil
}

// MyAttempts получает все попытки пользователя
func (s *AssessmentService) MyAttempts(ctx context.Context, userID int64) ([]*model.AssessmentAttempt, error) {
	attempts, err := s.assessments.ListAttemptsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	return attempts, nil
}
