package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/auth"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

// Accounts is the credential store for one kind of principal.
type Accounts struct {
	kind models.Kind
	repo AccountRepository
	now  func() time.Time
}

func NewAccounts(kind models.Kind, repo AccountRepository) *Accounts {
	return &Accounts{kind: kind, repo: repo, now: time.Now}
}

func (s *Accounts) Kind() models.Kind { return s.kind }

func (s *Accounts) label() string {
	if s.kind == models.KindAdmin {
		return "Admin"
	}
	return "User"
}

func (s *Accounts) duplicate() *errs.ApiErr {
	if s.kind == models.KindAdmin {
		return errs.DuplicateEmail("Admin already exists")
	}
	return errs.DuplicateEmail("Email already exists")
}

// Register creates an account. The email pre-check only short-circuits the
// common case; the unique index behind the repository is what guarantees
// uniqueness under concurrent registrations.
func (s *Accounts) Register(ctx context.Context, name, email, password string) (*models.Account, error) {
	now := s.now().UTC()
	account := &models.Account{
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := models.Validate(account); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, errs.Validation("password", "password is required")
	}

	if _, err := s.repo.FindByEmail(ctx, account.Email); err == nil {
		return nil, s.duplicate()
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errs.Internal("Failed to hash password", err)
	}
	account.PasswordHash = hash

	if err := s.repo.Insert(ctx, account); err != nil {
		if errs.IsDuplicateEmail(err) {
			return nil, s.duplicate()
		}
		return nil, err
	}
	return account, nil
}

// Authenticate never tells the caller whether the email or the password was
// wrong.
func (s *Accounts) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errs.IsNotFound(err) {
		return nil, errs.InvalidCredentials()
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, errs.InvalidCredentials()
	}
	return account, nil
}

func (s *Accounts) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.repo.FindByID(ctx, id)
	if errs.IsNotFound(err) {
		return nil, errs.NotFound(s.label())
	}
	return account, err
}

func (s *Accounts) List(ctx context.Context) ([]models.Account, error) {
	return s.repo.FindAll(ctx)
}

// Update applies the non-empty fields of upd. The password is re-hashed only
// when a new one is supplied.
func (s *Accounts) Update(ctx context.Context, id string, upd models.AccountUpdate) (*models.Account, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes models.AccountChanges
	if upd.Name != nil {
		if name := strings.TrimSpace(*upd.Name); name != "" && name != current.Name {
			changes.Name = &name
		}
	}
	if upd.Email != nil {
		if email := strings.TrimSpace(*upd.Email); email != "" && email != current.Email {
			if !models.ValidEmail(email) {
				return nil, errs.Validation("email", "Please provide a valid email address")
			}
			existing, err := s.repo.FindByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != current.ID:
				return nil, s.duplicate()
			case err != nil && !errs.IsNotFound(err):
				return nil, err
			}
			changes.Email = &email
		}
	}
	if upd.Password != nil && *upd.Password != "" {
		hash, err := auth.HashPassword(*upd.Password)
		if err != nil {
			return nil, errs.Internal("Failed to hash password", err)
		}
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		return current, nil
	}
	updated, err := s.repo.Update(ctx, id, changes)
	switch {
	case errs.IsNotFound(err):
		return nil, errs.NotFound(s.label())
	case errs.IsDuplicateEmail(err):
		return nil, s.duplicate()
	}
	return updated, err
}

func (s *Accounts) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errs.IsNotFound(err) {
		return errs.NotFound(s.label())
	}
	return err
}

// EnsureDefault registers the account unless one with that email exists.
func (s *Accounts) EnsureDefault(ctx context.Context, name, email, password string) (bool, error) {
	_, err := s.Register(ctx, name, email, password)
	if errors.Is(err, errs.ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
