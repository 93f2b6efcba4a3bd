package service

import (
	"context"
	"fmt"

	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"
)

// The template catalog ships with the binary; templates are starting points,
// not user data.
var templateCatalog = []model.Template{
	{
		ID:          "event-feedback",
		Name:        "Event Feedback",
		Description: "Collect overall impressions after a meetup or conference.",
		Category:    "events",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionRating, Text: "How would you rate this event overall?", Required: true},
			{ID: 2, Type: model.QuestionText, Text: "What did you enjoy most about the event?"},
			{ID: 3, Type: model.QuestionText, Text: "What could we improve for next time?", Required: true},
			{ID: 4, Type: model.QuestionRating, Text: "How likely are you to recommend this event to others?", Required: true},
		},
	},
	{
		ID:          "workshop-feedback",
		Name:        "Workshop Feedback",
		Description: "Measure how useful a training session was.",
		Category:    "education",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionRating, Text: "How useful was this workshop?", Required: true},
			{ID: 2, Type: model.QuestionRating, Text: "How clear was the presenter?", Required: true},
			{ID: 3, Type: model.QuestionText, Text: "What topics would you like covered in future workshops?"},
		},
	},
	{
		ID:          "course-survey",
		Name:        "Course Survey",
		Description: "End-of-term course evaluation.",
		Category:    "education",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionRating, Text: "How would you rate this course overall?", Required: true},
			{ID: 2, Type: model.QuestionSelect, Text: "How was the pace of the course?", Required: true, Options: []string{"Too slow", "Just right", "Too fast"}},
			{ID: 3, Type: model.QuestionText, Text: "What additional material would have helped?"},
		},
	},
	{
		ID:          "customer-satisfaction",
		Name:        "Customer Satisfaction",
		Description: "Short CSAT pulse for a product or service.",
		Category:    "business",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionRating, Text: "How satisfied are you with our service?", Required: true},
			{ID: 2, Type: model.QuestionBoolean, Text: "Did we resolve your issue today?", Required: true},
			{ID: 3, Type: model.QuestionText, Text: "Anything else you want us to know?"},
		},
	},
	{
		ID:          "product-feedback",
		Name:        "Product Feedback",
		Description: "Feature-level feedback for a product team.",
		Category:    "business",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionMultipleChoice, Text: "Which feature do you use most?", Required: true, Options: []string{"Dashboard", "Reports", "Integrations", "Other"}},
			{ID: 2, Type: model.QuestionRating, Text: "How easy is the product to use?", Required: true},
			{ID: 3, Type: model.QuestionText, Text: "What is the one thing you would change?"},
			{ID: 4, Type: model.QuestionRating, Text: "How likely are you to recommend us?", Required: true},
		},
	},
	{
		ID:          "orientation-survey",
		Name:        "Orientation Survey",
		Description: "First-week survey for new members or students.",
		Category:    "events",
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionRating, Text: "How would you rate your orientation experience?", Required: true},
			{ID: 2, Type: model.QuestionRating, Text: "How helpful were the guides?", Required: true},
			{ID: 3, Type: model.QuestionText, Text: "What additional information would have been helpful?"},
		},
	},
}

type TemplateService struct {
	forms *FormService
}

func NewTemplateService(forms *FormService) *TemplateService {
	return &TemplateService{forms: forms}
}

// ListTemplates returns the catalog, optionally filtered by category.
func (s *TemplateService) ListTemplates(category string) []model.Template {
	if category == "" || category == "all" {
		return templateCatalog
	}
	var out []model.Template
	for _, t := range templateCatalog {
		if t.Category == category {
			out = append(out, t)
		}
	}
	if out == nil {
		out = []model.Template{}
	}
	return out
}

func (s *TemplateService) GetTemplate(id string) (*model.Template, error) {
	for i := range templateCatalog {
		if templateCatalog[i].ID == id {
			return &templateCatalog[i], nil
		}
	}
	return nil, common.ErrNotFound
}

// UseTemplate instantiates a template into a new form owned by the caller.
// Question lists are copied so later edits never touch the catalog.
func (s *TemplateService) UseTemplate(ctx context.Context, ownerID, templateID, title string) (*model.Form, error) {
	tmpl, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = tmpl.Name
	}
	questions := make([]model.Question, len(tmpl.Questions))
	copy(questions, tmpl.Questions)

	form, err := s.forms.CreateForm(ctx, ownerID, CreateFormRequest{
		Title:     title,
		Questions: questions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create form from template %s: %w", templateID, err)
	}
	return form, nil
}
