package service

import (
	"context"
	"errors"
	"fmt"

	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"
	"quickfeedback/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const maxSlugAttempts = 50

type FormService struct {
	formRepo     repository.FormRepository
	responseRepo repository.ResponseRepository
}

func NewFormService(formRepo repository.FormRepository, responseRepo repository.ResponseRepository) *FormService {
	return &FormService{formRepo: formRepo, responseRepo: responseRepo}
}

type CreateFormRequest struct {
	Title     string                `json:"title"`
	EventName string                `json:"event_name"`
	EventDate string                `json:"event_date"`
	Questions []model.Question      `json:"questions"`
	Rules     []model.BranchingRule `json:"rules"`
	Settings  *model.FormSettings   `json:"settings,omitempty"`
}

type UpdateFormRequest struct {
	Title     *string                `json:"title,omitempty"`
	EventName *string                `json:"event_name,omitempty"`
	EventDate *string                `json:"event_date,omitempty"`
	Questions *[]model.Question      `json:"questions,omitempty"`
	Rules     *[]model.BranchingRule `json:"rules,omitempty"`
}

// FormSummary is a dashboard row: the form plus its response count.
type FormSummary struct {
	model.Form
	ResponseCount int `json:"response_count"`
}

func (s *FormService) CreateForm(ctx context.Context, ownerID string, req CreateFormRequest) (*model.Form, error) {
	if req.Title == "" {
		return nil, common.ValidationErrorf("Title is required")
	}
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}
	if err := validateRules(req.Rules, req.Questions); err != nil {
		return nil, err
	}

	settings := model.DefaultFormSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	formSlug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	form := &model.Form{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Slug:      formSlug,
		EventName: req.EventName,
		EventDate: req.EventDate,
		Questions: req.Questions,
		Rules:     req.Rules,
		Settings:  settings,
	}
	if err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	return form, nil
}

// uniqueSlug derives a URL slug from the title, suffixing -2, -3, ... on
// collision. The unique index on forms.slug still backstops a race.
func (s *FormService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "form"
	}
	candidate := base
	for i := 2; i <= maxSlugAttempts; i++ {
		exists, err := s.formRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("could not find a free slug for %q", base)
}

func (s *FormService) GetForm(ctx context.Context, callerID, formID string) (*model.Form, error) {
	return s.ownedForm(ctx, callerID, formID)
}

// GetPublicForm serves a respondent-facing projection by share slug.
func (s *FormService) GetPublicForm(ctx context.Context, formSlug string) (*model.PublicForm, error) {
	form, err := s.formRepo.FindBySlug(ctx, formSlug)
	if err != nil {
		return nil, err
	}
	if !form.Settings.AcceptingResponses {
		return nil, common.DomainErrorf(common.ErrForbidden, "This form is not accepting responses")
	}
	public := form.Public()
	return &public, nil
}

func (s *FormService) UpdateForm(ctx context.Context, callerID, formID string, req UpdateFormRequest) (*model.Form, error) {
	form, err := s.ownedForm(ctx, callerID, formID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, common.ValidationErrorf("Title is required")
		}
		form.Title = *req.Title
	}
	if req.EventName != nil {
		form.EventName = *req.EventName
	}
	if req.EventDate != nil {
		form.EventDate = *req.EventDate
	}
	if req.Questions != nil {
		if err := validateQuestions(*req.Questions); err != nil {
			return nil, err
		}
		form.Questions = *req.Questions
	}
	if req.Rules != nil {
		form.Rules = *req.Rules
	}
	// Rules must stay consistent with whatever the question set ends up as.
	if err := validateRules(form.Rules, form.Questions); err != nil {
		return nil, err
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}
	return form, nil
}

func (s *FormService) UpdateSettings(ctx context.Context, callerID, formID string, settings model.FormSettings) (*model.Form, error) {
	form, err := s.ownedForm(ctx, callerID, formID)
	if err != nil {
		return nil, err
	}
	form.Settings = settings
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return form, nil
}

func (s *FormService) UpdateRules(ctx context.Context, callerID, formID string, rules []model.BranchingRule) (*model.Form, error) {
	form, err := s.ownedForm(ctx, callerID, formID)
	if err != nil {
		return nil, err
	}
	if err := validateRules(rules, form.Questions); err != nil {
		return nil, err
	}
	form.Rules = rules
	if err := s.formRepo.Update(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to update rules: %w", err)
	}
	return form, nil
}

func (s *FormService) DeleteForm(ctx context.Context, callerID, formID string) error {
	if _, err := s.ownedForm(ctx, callerID, formID); err != nil {
		return err
	}
	if err := s.formRepo.Delete(ctx, formID); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	return nil
}

func (s *FormService) ListForms(ctx context.Context, ownerID string) ([]FormSummary, error) {
	forms, err := s.formRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	ids := make([]string, len(forms))
	for i := range forms {
		ids[i] = forms[i].ID
	}
	counts, err := s.responseRepo.CountByForms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	summaries := make([]FormSummary, len(forms))
	for i := range forms {
		summaries[i] = FormSummary{Form: forms[i], ResponseCount: counts[forms[i].ID]}
	}
	return summaries, nil
}

func (s *FormService) ownedForm(ctx context.Context, callerID, formID string) (*model.Form, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load form: %w", err)
	}
	if form.OwnerID != callerID {
		return nil, common.ErrForbidden
	}
	return form, nil
}

func validateQuestions(questions []model.Question) error {
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if seen[q.ID] {
			return common.ValidationErrorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if !q.Type.Valid() {
			return common.ValidationErrorf("unknown question type %q", q.Type)
		}
		if q.Text == "" {
			return common.ValidationErrorf("question %d has no text", q.ID)
		}
		needsOptions := q.Type == model.QuestionSelect || q.Type == model.QuestionMultipleChoice
		if needsOptions && len(q.Options) == 0 {
			return common.ValidationErrorf("question %d needs at least one option", q.ID)
		}
	}
	return nil
}

func validateRules(rules []model.BranchingRule, questions []model.Question) error {
	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for _, r := range rules {
		source, ok := byID[r.SourceQuestionID]
		if !ok {
			return common.ValidationErrorf("rule %d references unknown source question %d", r.ID, r.SourceQuestionID)
		}
		if !source.Type.Choosable() {
			return common.ValidationErrorf("rule %d source question %d cannot drive branching", r.ID, r.SourceQuestionID)
		}
		if _, ok := byID[r.Action.TargetQuestionID]; !ok {
			return common.ValidationErrorf("rule %d references unknown target question %d", r.ID, r.Action.TargetQuestionID)
		}
		if r.Action.TargetQuestionID == r.SourceQuestionID {
			return common.ValidationErrorf("rule %d targets its own source question", r.ID)
		}
		switch r.Condition.Type {
		case model.ConditionEquals, model.ConditionGreaterThan, model.ConditionLessThan:
		default:
			return common.ValidationErrorf("rule %d has unknown condition type %q", r.ID, r.Condition.Type)
		}
		switch r.Action.Type {
		case model.ActionShow, model.ActionHide, model.ActionSkip:
		default:
			return common.ValidationErrorf("rule %d has unknown action type %q", r.ID, r.Action.Type)
		}
	}
	return nil
}
