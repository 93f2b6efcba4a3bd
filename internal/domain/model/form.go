package model

import (
	"time"
)

type QuestionType string

const (
	QuestionRating         QuestionType = "rating"
	QuestionText           QuestionType = "text"
	QuestionSelect         QuestionType = "select"
	QuestionMultipleChoice QuestionType = "multipleChoice"
	QuestionBoolean        QuestionType = "boolean"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionRating, QuestionText, QuestionSelect, QuestionMultipleChoice, QuestionBoolean:
		return true
	}
	return false
}

// Choosable reports whether answers to this question type come from a fixed
// set, making it usable as a branching rule source.
func (t QuestionType) Choosable() bool {
	switch t {
	case QuestionRating, QuestionSelect, QuestionMultipleChoice, QuestionBoolean:
		return true
	}
	return false
}

type Question struct {
	ID       int          `json:"id"`
	Type     QuestionType `json:"type"`
	Text     string       `json:"text"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
}

type ConditionType string

const (
	ConditionEquals      ConditionType = "equals"
	ConditionGreaterThan ConditionType = "greaterThan"
	ConditionLessThan    ConditionType = "lessThan"
)

type ActionType string

const (
	ActionShow ActionType = "show"
	ActionHide ActionType = "hide"
	ActionSkip ActionType = "skip"
)

type RuleCondition struct {
	Type  ConditionType `json:"type"`
	Value string        `json:"value"`
}

type RuleAction struct {
	Type             ActionType `json:"type"`
	TargetQuestionID int        `json:"target_question_id"`
}

// BranchingRule makes the visibility of a target question depend on the
// answer given to a source question.
type BranchingRule struct {
	ID               int           `json:"id"`
	SourceQuestionID int           `json:"source_question_id"`
	Condition        RuleCondition `json:"condition"`
	Action           RuleAction    `json:"action"`
}

type FormSettings struct {
	AcceptingResponses  bool   `json:"accepting_responses"`
	AllowAnonymous      bool   `json:"allow_anonymous"`
	NotifyOnResponse    bool   `json:"notify_on_response"`
	NotifyEmail         string `json:"notify_email,omitempty"`
	ConfirmationMessage string `json:"confirmation_message,omitempty"`
}

func DefaultFormSettings() FormSettings {
	return FormSettings{
		AcceptingResponses:  true,
		AllowAnonymous:      true,
		ConfirmationMessage: "Thank you for your feedback!",
	}
}

type Form struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Title     string          `json:"title"`
	Slug      string          `json:"slug"`
	EventName string          `json:"event_name,omitempty"`
	EventDate string          `json:"event_date,omitempty"`
	Questions []Question      `json:"questions"`
	Rules     []BranchingRule `json:"rules"`
	Settings  FormSettings    `json:"settings"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (f *Form) Question(id int) *Question {
	for i := range f.Questions {
		if f.Questions[i].ID == id {
			return &f.Questions[i]
		}
	}
	return nil
}

// PublicForm is the projection served to respondents: no owner id, no
// notification address.
type PublicForm struct {
	ID                  string          `json:"id"`
	Title               string          `json:"title"`
	Slug                string          `json:"slug"`
	EventName           string          `json:"event_name,omitempty"`
	EventDate           string          `json:"event_date,omitempty"`
	Questions           []Question      `json:"questions"`
	Rules               []BranchingRule `json:"rules"`
	ConfirmationMessage string          `json:"confirmation_message,omitempty"`
}

func (f *Form) Public() PublicForm {
	return PublicForm{
		ID:                  f.ID,
		Title:               f.Title,
		Slug:                f.Slug,
		EventName:           f.EventName,
		EventDate:           f.EventDate,
		Questions:           f.Questions,
		Rules:               f.Rules,
		ConfirmationMessage: f.Settings.ConfirmationMessage,
	}
}
