package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"quickfeedback/internal/common"
	"quickfeedback/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type FormRepository interface {
	Create(ctx context.Context, form *model.Form) error
	Update(ctx context.Context, form *model.Form) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Form, error)
	FindBySlug(ctx context.Context, slug string) (*model.Form, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Form, error)
}

type pgFormRepository struct {
	db *sql.DB
}

func NewPgFormRepository(db *sql.DB) FormRepository {
	return &pgFormRepository{db: db}
}

// questions, rules and settings travel as jsonb blobs; the form keeps its
// document shape and only the columns we query on are relational.
func (r *pgFormRepository) Create(ctx context.Context, form *model.Form) error {
	questions, rules, settings, err := marshalFormDocs(form)
	if err != nil {
		return err
	}
	query := `INSERT INTO forms (id, owner_id, title, slug, event_name, event_date, questions, rules, settings)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		form.ID, form.OwnerID, form.Title, form.Slug, form.EventName, form.EventDate,
		questions, rules, settings,
	).Scan(&form.CreatedAt, &form.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ConflictErrorf("form slug already exists")
		}
		return fmt.Errorf("pgFormRepository.Create: %w", err)
	}
	return nil
}

func (r *pgFormRepository) Update(ctx context.Context, form *model.Form) error {
	questions, rules, settings, err := marshalFormDocs(form)
	if err != nil {
		return err
	}
	query := `UPDATE forms
	          SET title = $2, event_name = $3, event_date = $4, questions = $5, rules = $6, settings = $7,
	              updated_at = now()
	          WHERE id = $1
	          RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		form.ID, form.Title, form.EventName, form.EventDate, questions, rules, settings,
	).Scan(&form.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("pgFormRepository.Update: %w", err)
	}
	return nil
}

func (r *pgFormRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgFormRepository.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgFormRepository) FindByID(ctx context.Context, id string) (*model.Form, error) {
	return r.findBy(ctx, "id", id)
}

func (r *pgFormRepository) FindBySlug(ctx context.Context, slug string) (*model.Form, error) {
	return r.findBy(ctx, "slug", slug)
}

func (r *pgFormRepository) findBy(ctx context.Context, field, value string) (*model.Form, error) {
	query := `SELECT id, owner_id, title, slug, event_name, event_date, questions, rules, settings, created_at, updated_at
	          FROM forms WHERE ` + field + ` = $1`
	row := r.db.QueryRowContext(ctx, query, value)
	form, err := scanForm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgFormRepository.findBy %s: %w", field, err)
	}
	return form, nil
}

func (r *pgFormRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM forms WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgFormRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgFormRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Form, error) {
	query := `SELECT id, owner_id, title, slug, event_name, event_date, questions, rules, settings, created_at, updated_at
	          FROM forms WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgFormRepository.ListByOwner: %w", err)
	}
	defer rows.Close()

	var forms []model.Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("pgFormRepository.ListByOwner scan: %w", err)
		}
		forms = append(forms, *form)
	}
	return forms, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanForm(row rowScanner) (*model.Form, error) {
	form := &model.Form{}
	var questions, rules, settings []byte
	err := row.Scan(
		&form.ID, &form.OwnerID, &form.Title, &form.Slug, &form.EventName, &form.EventDate,
		&questions, &rules, &settings, &form.CreatedAt, &form.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &form.Questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	if err := json.Unmarshal(rules, &form.Rules); err != nil {
		return nil, fmt.Errorf("decoding rules: %w", err)
	}
	if err := json.Unmarshal(settings, &form.Settings); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return form, nil
}

func marshalFormDocs(form *model.Form) (questions, rules, settings []byte, err error) {
	if form.Questions == nil {
		form.Questions = []model.Question{}
	}
	if form.Rules == nil {
		form.Rules = []model.BranchingRule{}
	}
	if questions, err = json.Marshal(form.Questions); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding questions: %w", err)
	}
	if rules, err = json.Marshal(form.Rules); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding rules: %w", err)
	}
	if settings, err = json.Marshal(form.Settings); err != nil {
		return nil, nil, nil, fmt.Errorf("encoding settings: %w", err)
	}
	return questions, rules, settings, nil
}
