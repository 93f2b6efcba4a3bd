package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"quickfeedback/internal/domain/model"
)

type ResponseRepository interface {
	Create(ctx context.Context, response *model.Response) error
	ListByForm(ctx context.Context, formID string, limit, offset int) ([]model.Response, error)
	CountByForm(ctx context.Context, formID string) (int, error)
	CountByForms(ctx context.Context, formIDs []string) (map[string]int, error)
}

type pgResponseRepository struct {
	db *sql.DB
}

func NewPgResponseRepository(db *sql.DB) ResponseRepository {
	return &pgResponseRepository{db: db}
}

func (r *pgResponseRepository) Create(ctx context.Context, response *model.Response) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("encoding answers: %w", err)
	}
	query := `INSERT INTO responses (id, form_id, submitter_id, answers)
	          VALUES ($1, $2, $3, $4)
	          RETURNING submitted_at`
	err = r.db.QueryRowContext(ctx, query, response.ID, response.FormID, response.SubmitterID, answers).
		Scan(&response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("pgResponseRepository.Create: %w", err)
	}
	return nil
}

func (r *pgResponseRepository) ListByForm(ctx context.Context, formID string, limit, offset int) ([]model.Response, error) {
	query := `SELECT id, form_id, submitter_id, answers, submitted_at
	          FROM responses WHERE form_id = $1
	          ORDER BY submitted_at
	          LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, formID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgResponseRepository.ListByForm: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		var answers []byte
		if err := rows.Scan(&resp.ID, &resp.FormID, &resp.SubmitterID, &answers, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("pgResponseRepository.ListByForm scan: %w", err)
		}
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, fmt.Errorf("decoding answers: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *pgResponseRepository) CountByForm(ctx context.Context, formID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM responses WHERE form_id = $1`, formID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgResponseRepository.CountByForm: %w", err)
	}
	return count, nil
}

// CountByForms returns per-form response counts for the dashboard in one
// round trip. Forms with no responses are absent from the result map.
func (r *pgResponseRepository) CountByForms(ctx context.Context, formIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(formIDs))
	if len(formIDs) == 0 {
		return counts, nil
	}
	query := `SELECT form_id, COUNT(*) FROM responses WHERE form_id = ANY($1) GROUP BY form_id`
	rows, err := r.db.QueryContext(ctx, query, formIDs)
	if err != nil {
		return nil, fmt.Errorf("pgResponseRepository.CountByForms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("pgResponseRepository.CountByForms scan: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}
