package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/errs"
	"github.com/RaviKiran-incrivelsoft/SSRSS-backend/models"
)

// AccountStore keeps one kind of account in memory with the same uniqueness
// rules as the Mongo collections.
type AccountStore struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.Account
	byEmail map[string]primitive.ObjectID
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:    make(map[primitive.ObjectID]*models.Account),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (s *AccountStore) Insert(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[account.Email]; taken {
		return errs.DuplicateEmail("Email already exists")
	}
	if account.ID.IsZero() {
		account.ID = primitive.NewObjectID()
	}
	cp := *account
	s.byID[cp.ID] = &cp
	s.byEmail[cp.Email] = cp.ID
	return nil
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NotFound("Account")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[oid]
	if !ok {
		return nil, errs.NotFound("Account")
	}
	cp := *account
	return &cp, nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oid, ok := s.byEmail[email]
	if !ok {
		return nil, errs.NotFound("Account")
	}
	cp := *s.byID[oid]
	return &cp, nil
}

func (s *AccountStore) FindAll(ctx context.Context) ([]models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Account, 0, len(s.byID))
	for _, a := range s.byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *AccountStore) Update(ctx context.Context, id string, changes models.AccountChanges) (*models.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.NotFound("Account")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[oid]
	if !ok {
		return nil, errs.NotFound("Account")
	}
	if changes.Email != nil && *changes.Email != account.Email {
		if _, taken := s.byEmail[*changes.Email]; taken {
			return nil, errs.DuplicateEmail("Email already exists")
		}
		delete(s.byEmail, account.Email)
		account.Email = *changes.Email
		s.byEmail[account.Email] = oid
	}
	if changes.Name != nil {
		account.Name = *changes.Name
	}
	if changes.PasswordHash != nil {
		account.PasswordHash = *changes.PasswordHash
	}
	account.UpdatedAt = time.Now().UTC()
	cp := *account
	return &cp, nil
}

func (s *AccountStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.NotFound("Account")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[oid]
	if !ok {
		return errs.NotFound("Account")
	}
	delete(s.byEmail, account.Email)
	delete(s.byID, oid)
	return nil
}
