package service

import (
	"context"
	"fmt"
	"log"

	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"
	"quickfeedback/internal/domain/repository"

	"github.com/google/uuid"
)

// Notifier is told about each response to a form that opted into
// notifications. Delivery failures must not fail the submission.
type Notifier interface {
	ResponseReceived(ctx context.Context, form *model.Form, response *model.Response) error
}

type ResponseService struct {
	responseRepo repository.ResponseRepository
	formRepo     repository.FormRepository
	notifier     Notifier
}

func NewResponseService(responseRepo repository.ResponseRepository, formRepo repository.FormRepository, notifier Notifier) *ResponseService {
	return &ResponseService{responseRepo: responseRepo, formRepo: formRepo, notifier: notifier}
}

type SubmitResponseRequest struct {
	Answers model.Answers `json:"answers"`
}

type SubmitResponseResult struct {
	Message  string         `json:"message"`
	Response model.Response `json:"response"`
}

// SubmitResponse validates and stores a respondent's answers. submitterID is
// empty for anonymous submissions, which the form's settings must allow.
func (s *ResponseService) SubmitResponse(ctx context.Context, formSlug, submitterID string, req SubmitResponseRequest) (*SubmitResponseResult, error) {
	form, err := s.formRepo.FindBySlug(ctx, formSlug)
	if err != nil {
		return nil, err
	}
	if !form.Settings.AcceptingResponses {
		return nil, common.DomainErrorf(common.ErrForbidden, "This form is not accepting responses")
	}
	if submitterID == "" && !form.Settings.AllowAnonymous {
		return nil, common.DomainErrorf(common.ErrUnauthorized, "This form requires login")
	}

	if req.Answers == nil {
		req.Answers = model.Answers{}
	}
	if err := validateAnswers(form, req.Answers); err != nil {
		return nil, err
	}

	response := &model.Response{
		ID:      uuid.NewString(),
		FormID:  form.ID,
		Answers: req.Answers,
	}
	if submitterID != "" {
		response.SubmitterID = &submitterID
	}
	if err := s.responseRepo.Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	if form.Settings.NotifyOnResponse && s.notifier != nil {
		if err := s.notifier.ResponseReceived(ctx, form, response); err != nil {
			log.Printf("WARN: notification for form %s failed: %v", form.ID, err)
		}
	}

	message := form.Settings.ConfirmationMessage
	if message == "" {
		message = "Thank you for your feedback!"
	}
	return &SubmitResponseResult{Message: message, Response: *response}, nil
}

type ResponsePage struct {
	Responses []model.Response `json:"responses"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
}

// ListResponses returns a page of responses for a form the caller owns.
func (s *ResponseService) ListResponses(ctx context.Context, callerID, formID string, page, pageSize int) (*ResponsePage, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.OwnerID != callerID {
		return nil, common.ErrForbidden
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	responses, err := s.responseRepo.ListByForm(ctx, formID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	total, err := s.responseRepo.CountByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	if responses == nil {
		responses = []model.Response{}
	}
	return &ResponsePage{Responses: responses, Total: total, Page: page, PageSize: pageSize}, nil
}

// AllResponses fetches every response for export and analytics.
func (s *ResponseService) AllResponses(ctx context.Context, callerID, formID string) (*model.Form, []model.Response, error) {
	form, err := s.formRepo.FindByID(ctx, formID)
	if err != nil {
		return nil, nil, err
	}
	if form.OwnerID != callerID {
		return nil, nil, common.ErrForbidden
	}

	var all []model.Response
	const batch = 500
	for offset := 0; ; offset += batch {
		page, err := s.responseRepo.ListByForm(ctx, formID, batch, offset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load responses: %w", err)
		}
		all = append(all, page...)
		if len(page) < batch {
			break
		}
	}
	return form, all, nil
}

func validateAnswers(form *model.Form, answers model.Answers) error {
	for id := range answers {
		if form.Question(id) == nil {
			return common.ValidationErrorf("answer references unknown question %d", id)
		}
	}

	visible := VisibleQuestions(form, answers)
	for _, q := range form.Questions {
		answer, answered := answers[q.ID]
		if !answered {
			if q.Required && visible[q.ID] {
				return common.ValidationErrorf("question %d is required", q.ID)
			}
			continue
		}
		if err := checkAnswerType(q, answer); err != nil {
			return err
		}
	}
	return nil
}

func checkAnswerType(q model.Question, answer interface{}) error {
	switch q.Type {
	case model.QuestionRating:
		num, ok := answerAsFloat(answer)
		if !ok || num != float64(int(num)) || num < 1 || num > 5 {
			return common.ValidationErrorf("question %d expects a rating between 1 and 5", q.ID)
		}
	case model.QuestionText:
		if _, ok := answer.(string); !ok {
			return common.ValidationErrorf("question %d expects text", q.ID)
		}
	case model.QuestionSelect, model.QuestionMultipleChoice:
		choice, ok := answer.(string)
		if !ok {
			return common.ValidationErrorf("question %d expects one of its options", q.ID)
		}
		for _, opt := range q.Options {
			if opt == choice {
				return nil
			}
		}
		return common.ValidationErrorf("question %d got an answer outside its options", q.ID)
	case model.QuestionBoolean:
		if _, ok := answer.(bool); !ok {
			return common.ValidationErrorf("question %d expects true or false", q.ID)
		}
	}
	return nil
}
