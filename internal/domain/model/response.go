package model

import (
	"time"
)

// Answers maps a question id to the submitted value. Values are
// type-checked against the question at submission time: float64 for rating
// (JSON numbers), string for text/select/multipleChoice, bool for boolean.
type Answers map[int]interface{}

type Response struct {
	ID          string    `json:"id"`
	FormID      string    `json:"form_id"`
	SubmitterID *string   `json:"submitter_id,omitempty"`
	Answers     Answers   `json:"answers"`
	SubmittedAt time.Time `json:"submitted_at"`
}
