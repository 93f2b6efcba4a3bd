package client

import (
	"context"
	"net/http"
)

// Auth calls. A successful register or login stores the returned token so
// every later call carries it automatically.

func (c *Client) Register(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	req := map[string]string{"username": username, "email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp, "Registration failed"); err != nil {
		return nil, err
	}
	c.tokens.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, "Login failed"); err != nil {
		return nil, err
	}
	c.tokens.SetToken(resp.Token)
	return &resp, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, "Failed to get user data"); err != nil {
		return nil, err
	}
	return &user, nil
}

// Form management calls.

func (c *Client) CreateForm(ctx context.Context, req CreateFormRequest) (*Form, error) {
	var form Form
	if err := c.do(ctx, http.MethodPost, "/api/forms", req, &form, "Failed to create form"); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) ListForms(ctx context.Context) ([]FormSummary, error) {
	var forms []FormSummary
	if err := c.do(ctx, http.MethodGet, "/api/forms", nil, &forms, "Failed to fetch forms"); err != nil {
		return nil, err
	}
	return forms, nil
}

func (c *Client) GetForm(ctx context.Context, formID string) (*Form, error) {
	var form Form
	if err := c.do(ctx, http.MethodGet, "/api/forms/"+pathEscape(formID), nil, &form, "Failed to fetch form"); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) UpdateForm(ctx context.Context, formID string, req UpdateFormRequest) (*Form, error) {
	var form Form
	if err := c.do(ctx, http.MethodPut, "/api/forms/"+pathEscape(formID), req, &form, "Failed to update form"); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) DeleteForm(ctx context.Context, formID string) error {
	return c.do(ctx, http.MethodDelete, "/api/forms/"+pathEscape(formID), nil, nil, "Failed to delete form")
}

// Respondent-facing calls (work without a session).

func (c *Client) PublicForm(ctx context.Context, formSlug string) (*PublicForm, error) {
	var form PublicForm
	if err := c.do(ctx, http.MethodGet, "/api/f/"+pathEscape(formSlug), nil, &form, "Failed to fetch form"); err != nil {
		return nil, err
	}
	return &form, nil
}

func (c *Client) SubmitResponse(ctx context.Context, formSlug string, answers Answers) (*SubmitResult, error) {
	req := struct {
		Answers Answers `json:"answers"`
	}{Answers: answers}
	var result SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/f/"+pathEscape(formSlug)+"/responses", req, &result, "Failed to submit feedback"); err != nil {
		return nil, err
	}
	return &result, nil
}

// Owner analytics.

func (c *Client) Analytics(ctx context.Context, formID string) (*FormAnalytics, error) {
	var analytics FormAnalytics
	if err := c.do(ctx, http.MethodGet, "/api/forms/"+pathEscape(formID)+"/analytics", nil, &analytics, "Failed to fetch analytics"); err != nil {
		return nil, err
	}
	return &analytics, nil
}
