package service

import (
	"github.com/Solvent24/wps-ai/internal/account/model"
	"github.com/Solvent24/wps-ai/internal/account/repository"
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/pkg/credentials"

	"github.com/google/uuid"
)

type AccountService struct {
	Repo *repository.AccountRepository
}

func NewAccountService(repo *repository.AccountRepository) *AccountService {
	return &AccountService{Repo: repo}
}

// ResolveOrCreate maps a verified external identity onto a local account.
// An existing account keyed by email is upgraded in place: it gains the
// google id without losing its password credential. The avatar URL is
// accepted from the provider but not stored.
func (s *AccountService) ResolveOrCreate(email, name, googleID, avatar string) (*model.Account, error) {
	if email == "" {
		return nil, apperr.Validation("email not provided by identity provider")
	}

	acc, err := s.resolveExisting(email, googleID)
	if err != nil || acc != nil {
		return acc, err
	}

	acc = &model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: credentials.SentinelOAuth,
		GoogleID:     googleID,
	}
	if err := s.Repo.Insert(acc); err != nil {
		if repository.IsUniqueViolation(err) {
			// Lost the race against a concurrent signup for the same email;
			// the winner's row is the account we want.
			winner, err := s.resolveExisting(email, googleID)
			if err != nil {
				return nil, err
			}
			if winner == nil {
				return nil, apperr.ErrAccountCreation
			}
			return winner, nil
		}
		return nil, apperr.Persistence("insert account", err)
	}
	if err := s.Repo.InsertSettings(acc.ID); err != nil {
		return nil, apperr.Persistence("insert settings", err)
	}

	created, err := s.Repo.FindByID(acc.ID)
	if err != nil {
		return nil, apperr.Persistence("reload account", err)
	}
	if created == nil {
		return nil, apperr.ErrAccountCreation
	}
	return created, nil
}

func (s *AccountService) resolveExisting(email, googleID string) (*model.Account, error) {
	acc, err := s.Repo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Persistence("lookup account by email", err)
	}
	if acc != nil {
		if acc.GoogleID == "" && googleID != "" {
			if err := s.Repo.AttachGoogleID(acc.ID, googleID); err != nil {
				return nil, apperr.Persistence("attach google id", err)
			}
			acc.GoogleID = googleID
		}
		return acc, nil
	}
	if googleID == "" {
		return nil, nil
	}
	acc, err = s.Repo.FindByGoogleID(googleID)
	if err != nil {
		return nil, apperr.Persistence("lookup account by google id", err)
	}
	return acc, nil
}

// Register creates a password account plus its default settings row.
func (s *AccountService) Register(req model.RegisterRequest) (*model.Account, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	existing, err := s.Repo.FindByEmail(req.Email)
	if err != nil {
		return nil, apperr.Persistence("lookup account by email", err)
	}
	if existing != nil {
		return nil, apperr.Validation("user with this email already exists")
	}

	hash, err := credentials.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	acc := &model.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.Repo.Insert(acc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("user with this email already exists")
		}
		return nil, apperr.Persistence("insert account", err)
	}
	if err := s.Repo.InsertSettings(acc.ID); err != nil {
		return nil, apperr.Persistence("insert settings", err)
	}

	created, err := s.Repo.FindByID(acc.ID)
	if err != nil {
		return nil, apperr.Persistence("reload account", err)
	}
	if created == nil {
		return nil, apperr.ErrAccountCreation
	}
	return created, nil
}

// Authenticate verifies a password login. A nil account with nil error means
// the credentials did not match.
func (s *AccountService) Authenticate(email, password string) (*model.Account, error) {
	acc, err := s.Repo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Persistence("lookup account by email", err)
	}
	if acc == nil || !credentials.Verify(password, acc.PasswordHash) {
		return nil, nil
	}
	return acc, nil
}

func (s *AccountService) GetByID(id string) (*model.Account, error) {
	acc, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, apperr.Persistence("lookup account by id", err)
	}
	if acc == nil {
		return nil, apperr.ErrNotFound
	}
	return acc, nil
}

func (s *AccountService) GetSettings(userID string) (*model.Settings, error) {
	settings, err := s.Repo.GetSettings(userID)
	if err != nil {
		return nil, apperr.Persistence("get settings", err)
	}
	if settings == nil {
		return nil, apperr.ErrNotFound
	}
	return settings, nil
}

func (s *AccountService) UpdateSettings(userID string, patch model.SettingsUpdate) (*model.Settings, error) {
	if err := s.Repo.UpdateSettings(userID, patch); err != nil {
		return nil, apperr.Persistence("update settings", err)
	}
	return s.GetSettings(userID)
}
