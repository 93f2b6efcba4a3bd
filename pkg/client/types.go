package client

import "time"

// Wire types mirroring the server's JSON contract. The SDK carries its own
// copies so embedders can name them in their signatures.

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type Question struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"` // rating, text, select, multipleChoice, boolean
	Text     string   `json:"text"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type RuleCondition struct {
	Type  string `json:"type"` // equals, greaterThan, lessThan
	Value string `json:"value"`
}

type RuleAction struct {
	Type             string `json:"type"` // show, hide, skip
	TargetQuestionID int    `json:"target_question_id"`
}

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

// FormSummary is a dashboard row: the form plus its response count.
type FormSummary struct {
	Form
	ResponseCount int `json:"response_count"`
}

// PublicForm is the respondent-facing projection: no owner id, no
// notification settings.
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

// Answers maps a question id to the submitted value.
type Answers map[int]interface{}

type Response struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form_id"`
	SubmitterID *string   `json:"submitter_id,omitempty"`
	Answers     Answers   `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubmitResult struct {
	Message  string   `json:"message"`
	Response Response `json:"response"`
}

type CreateFormRequest struct {
	Title     string          `json:"title"`
	EventName string          `json:"event_name"`
	EventDate string          `json:"event_date"`
	Questions []Question      `json:"questions"`
	Rules     []BranchingRule `json:"rules"`
	Settings  *FormSettings   `json:"settings,omitempty"`
}

type UpdateFormRequest struct {
	Title     *string          `json:"title,omitempty"`
	EventName *string          `json:"event_name,omitempty"`
	EventDate *string          `json:"event_date,omitempty"`
	Questions *[]Question      `json:"questions,omitempty"`
	Rules     *[]BranchingRule `json:"rules,omitempty"`
}

type RatingStats struct {
	QuestionID int     `json:"question_id"`
	Text       string  `json:"text"`
	Average    float64 `json:"average"`
	Counts     [5]int  `json:"counts"`
}

type TextSamples struct {
	QuestionID int      `json:"question_id"`
	Text       string   `json:"text"`
	Answers    []string `json:"answers"`
	Total      int      `json:"total"`
}

type FormAnalytics struct {
	FormID        string        `json:"form_id"`
	Title         string        `json:"title"`
	ResponseCount int           `json:"response_count"`
	AverageRating float64       `json:"average_rating"`
	RecommendRate float64       `json:"recommend_rate"`
	Ratings       []RatingStats `json:"ratings"`
	TextAnswers   []TextSamples `json:"text_answers"`
}
