package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"quickfeedback/internal/domain/model"
)

const textSampleLimit = 20

type AnalyticsService struct {
	responses *ResponseService
}

func NewAnalyticsService(responses *ResponseService) *AnalyticsService {
	return &AnalyticsService{responses: responses}
}

// RatingStats aggregates one rating question: its mean and a 1-5 histogram.
type RatingStats struct {
	QuestionID int     `json:"question_id"`
	Text       string  `json:"text"`
	Average    float64 `json:"average"`
	Counts     [5]int  `json:"counts"` // Counts[0] is the number of 1-star answers
}

// TextSamples carries a bounded sample of free-text answers per question.
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

// FormAnalytics computes the dashboard aggregates for one form in a single
// pass over its responses.
//
// AverageRating is the mean over every rating answer on the form.
// RecommendRate is the share of responses that scored the form's last rating
// question (the "would you recommend" slot) at 4 or above.
func (s *AnalyticsService) FormAnalytics(ctx context.Context, callerID, formID string) (*FormAnalytics, error) {
	form, responses, err := s.responses.AllResponses(ctx, callerID, formID)
	if err != nil {
		return nil, err
	}
	return Aggregate(form, responses), nil
}

func Aggregate(form *model.Form, responses []model.Response) *FormAnalytics {
	out := &FormAnalytics{
		FormID:        form.ID,
		Title:         form.Title,
		ResponseCount: len(responses),
		Ratings:       []RatingStats{},
		TextAnswers:   []TextSamples{},
	}

	recommendID := -1
	ratingIdx := map[int]int{}
	textIdx := map[int]int{}
	for _, q := range form.Questions {
		switch q.Type {
		case model.QuestionRating:
			ratingIdx[q.ID] = len(out.Ratings)
			out.Ratings = append(out.Ratings, RatingStats{QuestionID: q.ID, Text: q.Text})
			recommendID = q.ID
		case model.QuestionText:
			textIdx[q.ID] = len(out.TextAnswers)
			out.TextAnswers = append(out.TextAnswers, TextSamples{QuestionID: q.ID, Text: q.Text, Answers: []string{}})
		}
	}

	var ratingSum float64
	var ratingTotal, recommended int
	perQuestionSum := make(map[int]float64, len(ratingIdx))
	perQuestionN := make(map[int]int, len(ratingIdx))

	for _, resp := range responses {
		for id, answer := range resp.Answers {
			if i, ok := ratingIdx[id]; ok {
				num, numeric := answerAsFloat(answer)
				if !numeric {
					continue
				}
				ratingSum += num
				ratingTotal++
				perQuestionSum[id] += num
				perQuestionN[id]++
				if star := int(num); star >= 1 && star <= 5 {
					out.Ratings[i].Counts[star-1]++
				}
				if id == recommendID && num >= 4 {
					recommended++
				}
			} else if i, ok := textIdx[id]; ok {
				text, isText := answer.(string)
				if !isText || text == "" {
					continue
				}
				out.TextAnswers[i].Total++
				if len(out.TextAnswers[i].Answers) < textSampleLimit {
					out.TextAnswers[i].Answers = append(out.TextAnswers[i].Answers, text)
				}
			}
		}
	}

	if ratingTotal > 0 {
		out.AverageRating = ratingSum / float64(ratingTotal)
	}
	if len(responses) > 0 && recommendID >= 0 {
		out.RecommendRate = float64(recommended) / float64(len(responses))
	}
	for id, i := range ratingIdx {
		if n := perQuestionN[id]; n > 0 {
			out.Ratings[i].Average = perQuestionSum[id] / float64(n)
		}
	}
	return out
}

// ExportCSV streams a form's responses as CSV: one header row with question
// texts, one row per response.
func (s *AnalyticsService) ExportCSV(ctx context.Context, callerID, formID string, w io.Writer) error {
	form, responses, err := s.responses.AllResponses(ctx, callerID, formID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"response_id", "submitted_at"}
	for _, q := range form.Questions {
		header = append(header, q.Text)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, resp := range responses {
		row := []string{resp.ID, resp.SubmittedAt.Format("2006-01-02 15:04:05")}
		for _, q := range form.Questions {
			row = append(row, answerCell(resp.Answers[q.ID]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func answerCell(answer interface{}) string {
	if answer == nil {
		return ""
	}
	if num, ok := answerAsFloat(answer); ok {
		return strconv.FormatFloat(num, 'f', -1, 64)
	}
	return answerAsString(answer)
}
