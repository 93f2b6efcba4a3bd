package service

import (
	"context"
	"testing"

	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormService() (*FormService, *fakeFormRepo, *fakeResponseRepo) {
	formRepo := newFakeFormRepo()
	responseRepo := &fakeResponseRepo{}
	return NewFormService(formRepo, responseRepo), formRepo, responseRepo
}

func ratingQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Type: model.QuestionRating, Text: "How was it?", Required: true},
		{ID: 2, Type: model.QuestionText, Text: "Tell us more"},
	}
}

func TestCreateForm_Success(t *testing.T) {
	s, _, _ := newFormService()

	form, err := s.CreateForm(context.Background(), "owner-1", CreateFormRequest{
		Title:     "Tech Meetup Feedback",
		EventName: "Campus Tech Meetup 2025",
		Questions: ratingQuestions(),
	})
	require.NoError(t, err)

	assert.Equal(t, "owner-1", form.OwnerID)
	assert.Equal(t, "tech-meetup-feedback", form.Slug)
	assert.True(t, form.Settings.AcceptingResponses, "new forms accept responses by default")
	assert.NotEmpty(t, form.ID)
}

func TestCreateForm_SlugCollision(t *testing.T) {
	s, _, _ := newFormService()

	first, err := s.CreateForm(context.Background(), "owner-1", CreateFormRequest{Title: "Feedback"})
	require.NoError(t, err)
	second, err := s.CreateForm(context.Background(), "owner-1", CreateFormRequest{Title: "Feedback"})
	require.NoError(t, err)
	third, err := s.CreateForm(context.Background(), "owner-2", CreateFormRequest{Title: "Feedback"})
	require.NoError(t, err)

	assert.Equal(t, "feedback", first.Slug)
	assert.Equal(t, "feedback-2", second.Slug)
	assert.Equal(t, "feedback-3", third.Slug)
}

func TestCreateForm_Validation(t *testing.T) {
	s, _, _ := newFormService()
	ctx := context.Background()

	_, err := s.CreateForm(ctx, "owner-1", CreateFormRequest{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateForm(ctx, "owner-1", CreateFormRequest{
		Title: "Bad questions",
		Questions: []model.Question{
			{ID: 1, Type: "essay", Text: "??"},
		},
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateForm(ctx, "owner-1", CreateFormRequest{
		Title: "Duplicate ids",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionText, Text: "a"},
			{ID: 1, Type: model.QuestionText, Text: "b"},
		},
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateForm(ctx, "owner-1", CreateFormRequest{
		Title: "Select without options",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionSelect, Text: "Pick one"},
		},
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateForm_RuleValidation(t *testing.T) {
	s, _, _ := newFormService()
	ctx := context.Background()

	base := CreateFormRequest{Title: "Ruled", Questions: ratingQuestions()}

	bad := base
	bad.Rules = []model.BranchingRule{{
		ID: 1, SourceQuestionID: 99,
		Condition: model.RuleCondition{Type: model.ConditionEquals, Value: "5"},
		Action:    model.RuleAction{Type: model.ActionShow, TargetQuestionID: 2},
	}}
	_, err := s.CreateForm(ctx, "owner-1", bad)
	assert.ErrorIs(t, err, common.ErrValidation, "unknown source question")

	bad = base
	bad.Rules = []model.BranchingRule{{
		ID: 1, SourceQuestionID: 2, // text question cannot drive branching
		Condition: model.RuleCondition{Type: model.ConditionEquals, Value: "x"},
		Action:    model.RuleAction{Type: model.ActionShow, TargetQuestionID: 1},
	}}
	_, err = s.CreateForm(ctx, "owner-1", bad)
	assert.ErrorIs(t, err, common.ErrValidation, "text source")

	good := base
	good.Rules = []model.BranchingRule{{
		ID: 1, SourceQuestionID: 1,
		Condition: model.RuleCondition{Type: model.ConditionLessThan, Value: "3"},
		Action:    model.RuleAction{Type: model.ActionShow, TargetQuestionID: 2},
	}}
	_, err = s.CreateForm(ctx, "owner-1", good)
	assert.NoError(t, err)
}

func TestUpdateForm_OwnerOnly(t *testing.T) {
	s, _, _ := newFormService()
	ctx := context.Background()

	form, err := s.CreateForm(ctx, "owner-1", CreateFormRequest{Title: "Mine"})
	require.NoError(t, err)

	newTitle := "Theirs"
	_, err = s.UpdateForm(ctx, "owner-2", form.ID, UpdateFormRequest{Title: &newTitle})
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := s.UpdateForm(ctx, "owner-1", form.ID, UpdateFormRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "Theirs", updated.Title)
	assert.Equal(t, form.Slug, updated.Slug, "slug is stable across renames")
}

func TestGetPublicForm(t *testing.T) {
	s, _, _ := newFormService()
	ctx := context.Background()

	form, err := s.CreateForm(ctx, "owner-1", CreateFormRequest{
		Title:     "Public",
		Questions: ratingQuestions(),
		Settings: &model.FormSettings{
			AcceptingResponses: true,
			NotifyEmail:        "owner@example.com",
		},
	})
	require.NoError(t, err)

	public, err := s.GetPublicForm(ctx, form.Slug)
	require.NoError(t, err)
	assert.Equal(t, form.ID, public.ID)
	assert.Len(t, public.Questions, 2)

	// Closed forms are not served.
	_, err = s.UpdateSettings(ctx, "owner-1", form.ID, model.FormSettings{AcceptingResponses: false})
	require.NoError(t, err)
	_, err = s.GetPublicForm(ctx, form.Slug)
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = s.GetPublicForm(ctx, "no-such-slug")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListForms_WithCounts(t *testing.T) {
	s, _, responseRepo := newFormService()
	ctx := context.Background()

	form, err := s.CreateForm(ctx, "owner-1", CreateFormRequest{Title: "Counted"})
	require.NoError(t, err)
	_, err = s.CreateForm(ctx, "owner-1", CreateFormRequest{Title: "Empty"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, responseRepo.Create(ctx, &model.Response{ID: uuid.NewString(), FormID: form.ID, Answers: model.Answers{}}))
	}

	summaries, err := s.ListForms(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	counts := map[string]int{}
	for _, summary := range summaries {
		counts[summary.Title] = summary.ResponseCount
	}
	assert.Equal(t, 3, counts["Counted"])
	assert.Equal(t, 0, counts["Empty"])
}

func TestDeleteForm(t *testing.T) {
	s, _, _ := newFormService()
	ctx := context.Background()

	form, err := s.CreateForm(ctx, "owner-1", CreateFormRequest{Title: "Doomed"})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteForm(ctx, "owner-2", form.ID), common.ErrForbidden)
	require.NoError(t, s.DeleteForm(ctx, "owner-1", form.ID))
	assert.ErrorIs(t, s.DeleteForm(ctx, "owner-1", form.ID), common.ErrNotFound)
}
