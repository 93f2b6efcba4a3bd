package service

import (
	"context"
	"testing"
	"time"

	"quickfeedback/internal/common"
	"quickfeedback/internal/common/security"
	"quickfeedback/internal/domain/model"
	"quickfeedback/internal/platform/config"

	"golang.org/x/crypto/bcrypt"
)

// initTestConfig wires a throwaway config and JWT key; bcrypt runs at its
// minimum cost so the suite stays fast.
func initTestConfig(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:     []byte("test-secret"),
		JWTExp:     30 * 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	security.InitJWT()
}

// --- in-memory repositories ---

type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return common.ConflictErrorf("Email already exists")
		}
		if u.Username == user.Username {
			return common.ConflictErrorf("Username already exists")
		}
	}
	user.CreatedAt = time.Now()
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeFormRepo struct {
	forms map[string]*model.Form
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: map[string]*model.Form{}}
}

func (f *fakeFormRepo) Create(_ context.Context, form *model.Form) error {
	for _, existing := range f.forms {
		if existing.Slug == form.Slug {
			return common.ConflictErrorf("form slug already exists")
		}
	}
	form.CreatedAt = time.Now()
	form.UpdatedAt = form.CreatedAt
	clone := *form
	f.forms[form.ID] = &clone
	return nil
}

func (f *fakeFormRepo) Update(_ context.Context, form *model.Form) error {
	if _, ok := f.forms[form.ID]; !ok {
		return common.ErrNotFound
	}
	form.UpdatedAt = time.Now()
	clone := *form
	f.forms[form.ID] = &clone
	return nil
}

func (f *fakeFormRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.forms[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.forms, id)
	return nil
}

func (f *fakeFormRepo) FindByID(_ context.Context, id string) (*model.Form, error) {
	form, ok := f.forms[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *form
	return &clone, nil
}

func (f *fakeFormRepo) FindBySlug(_ context.Context, slug string) (*model.Form, error) {
	for _, form := range f.forms {
		if form.Slug == slug {
			clone := *form
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeFormRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, form := range f.forms {
		if form.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFormRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Form, error) {
	var out []model.Form
	for _, form := range f.forms {
		if form.OwnerID == ownerID {
			out = append(out, *form)
		}
	}
	return out, nil
}

type fakeResponseRepo struct {
	responses []model.Response
}

func (f *fakeResponseRepo) Create(_ context.Context, response *model.Response) error {
	response.SubmittedAt = time.Now()
	f.responses = append(f.responses, *response)
	return nil
}

func (f *fakeResponseRepo) ListByForm(_ context.Context, formID string, limit, offset int) ([]model.Response, error) {
	var all []model.Response
	for _, r := range f.responses {
		if r.FormID == formID {
			all = append(all, r)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeResponseRepo) CountByForm(_ context.Context, formID string) (int, error) {
	count := 0
	for _, r := range f.responses {
		if r.FormID == formID {
			count++
		}
	}
	return count, nil
}

func (f *fakeResponseRepo) CountByForms(ctx context.Context, formIDs []string) (map[string]int, error) {
	counts := map[string]int{}
	for _, id := range formIDs {
		n, _ := f.CountByForm(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

type fakeNotifier struct {
	events []string // response IDs seen
	err    error
}

func (f *fakeNotifier) ResponseReceived(_ context.Context, _ *model.Form, response *model.Response) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, response.ID)
	return nil
}
