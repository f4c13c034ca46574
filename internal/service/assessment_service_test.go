package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/Freeeeeet/nurse_mentorship/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapCache struct {
	mu          sync.Mutex
	items       map[string][]*model.PublicAssessment
	hits        int
	invalidated int
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string][]*model.PublicAssessment)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]*model.PublicAssessment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, ok := c.items[key]
	if ok {
		c.hits++
	}
	return items, ok
}

func (c *mapCache) Set(_ context.Context, key string, items []*model.PublicAssessment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = items
}

func (c *mapCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string][]*model.PublicAssessment)
	c.invalidated++
}

func threeQuestions() []model.Question {
	return []model.Question{
		{Text: "Normal adult resting heart rate?", Options: []string{"30-50", "60-100", "110-140"}, CorrectAnswer: 1},
		{Text: "Hand hygiene duration?", Options: []string{"5 seconds", "20 seconds"}, CorrectAnswer: 1},
		{Text: "Universal donor blood type?", Options: []string{"O-", "AB+", "A+"}, CorrectAnswer: 0},
	}
}

func newAssessmentService(t *testing.T) (*AssessmentService, *mapCache) {
	t.Helper()
	cache := newMapCache()
	return NewAssessmentService(memory.New().Assessments, cache, zap.NewNop()), cache
}

func TestAssessmentSubmitScoring(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessmentService(t)

	a, err := svc.Create(ctx, 1, AssessmentInput{
		Title:     "Vitals basics",
		Type:      model.AssessmentTypeStandalone,
		Questions: threeQuestions(),
		IsActive:  true,
	})
	require.NoError(t, err)

	result, err := svc.Submit(ctx, a.ID, 42, []int{1, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 66.67, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, model.AssessmentTypeStandalone, result.AssessmentType)

	_, err = svc.Submit(ctx, a.ID, 42, []int{1, 1, 0})
	assert.ErrorIs(t, err, model.ErrAttemptExists)
	assert.ErrorIs(t, err, model.ErrConflict)

	perfect, err := svc.Submit(ctx, a.ID, 43, []int{1, 1, 0, 5})
	require.NoError(t, err)
	assert.Equal(t, 100.0, perfect.Score)
	assert.True(t, perfect.Passed)

	short, err := svc.Submit(ctx, a.ID, 44, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, short.CorrectAnswers)
	assert.Equal(t, 33.33, short.Score)

	attempts, err := svc.MyAttempts(ctx, 42)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, result.AttemptID, attempts[0].ID)
}

func TestAssessmentSubmitConcurrentSingleAttempt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessmentService(t)

	a, err := svc.Create(ctx, 1, AssessmentInput{Title: "Once", Type: model.AssessmentTypeStandalone, Questions: threeQuestions(), IsActive: true})
	require.NoError(t, err)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(ctx, a.ID, 7, []int{1, 1, 0}); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
}

func TestAssessmentSubmitRejections(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessmentService(t)

	inactive, err := svc.Create(ctx, 1, AssessmentInput{Title: "Hidden", Type: model.AssessmentTypeStandalone, Questions: threeQuestions()})
	require.NoError(t, err)
	empty, err := svc.Create(ctx, 1, AssessmentInput{Title: "Empty", Type: model.AssessmentTypeStandalone, IsActive: true})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, 999, 1, []int{0})
	assert.ErrorIs(t, err, model.ErrAssessmentNotFound)

	_, err = svc.Submit(ctx, inactive.ID, 1, []int{0})
	assert.ErrorIs(t, err, model.ErrAssessmentInactive)

	_, err = svc.Submit(ctx, empty.ID, 1, []int{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAssessmentRedaction(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessmentService(t)

	a, err := svc.Create(ctx, 1, AssessmentInput{Title: "Redacted", Type: model.AssessmentTypeStandalone, Questions: threeQuestions(), IsActive: true})
	require.NoError(t, err)

	public, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, public.Questions, 3)

	raw, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")

	list, err := svc.List(ctx, "", nil)
	require.NoError(t, err)
	raw, err = json.Marshal(list)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correctAnswer")

	admin, err := svc.GetAdmin(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, admin.Questions[0].CorrectAnswer)
}

func TestAssessmentListFilteringAndCache(t *testing.T) {
	ctx := context.Background()
	svc, cache := newAssessmentService(t)
	course := int64(5)

	_, err := svc.Create(ctx, 1, AssessmentInput{Title: "Standalone", Type: model.AssessmentTypeStandalone, Questions: threeQuestions(), IsActive: true})
	require.NoError(t, err)
	courseTest, err := svc.Create(ctx, 1, AssessmentInput{Title: "Course", Type: model.AssessmentTypeCourse, CourseID: &course, Questions: threeQuestions(), IsActive: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, AssessmentInput{Title: "Draft", Type: model.AssessmentTypeStandalone, Questions: threeQuestions()})
	require.NoError(t, err)

	all, err := svc.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2, "inactive assessments are hidden")

	byCourse, err := svc.List(ctx, "course", &course)
	require.NoError(t, err)
	require.Len(t, byCourse, 1)
	assert.Equal(t, courseTest.ID, byCourse[0].ID)

	_, err = svc.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	before := cache.invalidated
	_, err = svc.Update(ctx, courseTest.ID, AssessmentInput{Title: "Course v2", Type: model.AssessmentTypeCourse, CourseID: &course, Questions: threeQuestions()})
	require.NoError(t, err)
	assert.Equal(t, before+1, cache.invalidated)

	all, err = svc.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.List(ctx, "quiz", nil)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAssessmentInputValidation(t *testing.T) {
	course := int64(1)
	tests := []struct {
		name string
		in   AssessmentInput
	}{
		{name: "no title", in: AssessmentInput{Type: model.AssessmentTypeStandalone}},
		{name: "bad type", in: AssessmentInput{Title: "x", Type: "quiz"}},
		{name: "course without id", in: AssessmentInput{Title: "x", Type: model.AssessmentTypeCourse}},
		{name: "one option", in: AssessmentInput{Title: "x", Type: model.AssessmentTypeCourse, CourseID: &course,
			Questions: []model.Question{{Text: "q", Options: []string{"a"}}}}},
		{name: "answer out of range", in: AssessmentInput{Title: "x", Type: model.AssessmentTypeStandalone,
			Questions: []model.Question{{Text: "q", Options: []string{"a", "b"}, CorrectAnswer: 2}}}},
	}

	ctx := context.Background()
	svc, _ := newAssessmentService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tt.in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAssessmentResultAccess(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAssessmentService(t)

	a, err := svc.Create(ctx, 1, AssessmentInput{Title: "Access", Type: model.AssessmentTypeStandalone, Questions: threeQuestions(), IsActive: true})
	require.NoError(t, err)
	result, err := svc.Submit(ctx, a.ID, 10, []int{1, 1, 0})
	require.NoError(t, err)

	attempt, err := svc.Result(ctx, model.Actor{UserID: 10, Role: model.RoleNurse}, result.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 0}, attempt.Answers)

	_, err = svc.Result(ctx, model.Actor{UserID: 11, Role: model.RoleNurse}, result.AttemptID)
	assert.ErrorIs(t, err, model.ErrAccessDenied)

	_, err = svc.Result(ctx, model.Actor{UserID: 11, Role: model.RoleAdmin}, result.AttemptID)
	assert.NoError(t, err)

	_, err = svc.Result(ctx, model.Actor{UserID: 10, Role: model.RoleNurse}, 999)
	assert.ErrorIs(t, err, model.ErrAttemptNotFound)

	require.NoError(t, svc.Delete(ctx, a.ID))
	_, err = svc.Result(ctx, model.Actor{UserID: 10, Role: model.RoleNurse}, result.AttemptID)
	assert.ErrorIs(t, err, model.ErrAttemptNotFound)
}
