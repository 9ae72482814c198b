package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Solvent24/wps-ai/internal/account/model"
	"github.com/Solvent24/wps-ai/pkg/logger"

	"github.com/lib/pq"
)

const accountColumns = "id, email, name, password_hash, google_id, created_at, updated_at"

type AccountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{DB: db}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// conflict, the signal the resolver uses to rerun its lookup path.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*model.Account, error) {
	var acc model.Account
	var googleID sql.NullString
	err := row.Scan(&acc.ID, &acc.Email, &acc.Name, &acc.PasswordHash, &googleID, &acc.CreatedAt, &acc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	acc.GoogleID = googleID.String
	return &acc, nil
}

func (r *AccountRepository) FindByEmail(email string) (*model.Account, error) {
	return r.scanAccount(r.DB.QueryRow(
		"SELECT "+accountColumns+" FROM users WHERE email = $1", email))
}

func (r *AccountRepository) FindByGoogleID(googleID string) (*model.Account, error) {
	return r.scanAccount(r.DB.QueryRow(
		"SELECT "+accountColumns+" FROM users WHERE google_id = $1", googleID))
}

func (r *AccountRepository) FindByID(id string) (*model.Account, error) {
	return r.scanAccount(r.DB.QueryRow(
		"SELECT "+accountColumns+" FROM users WHERE id = $1", id))
}

func (r *AccountRepository) Insert(acc *model.Account) error {
	googleID := sql.NullString{String: acc.GoogleID, Valid: acc.GoogleID != ""}
	_, err := r.DB.Exec(
		`INSERT INTO users (id, email, name, password_hash, google_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`,
		acc.ID, acc.Email, acc.Name, acc.PasswordHash, googleID)
	if err != nil && !IsUniqueViolation(err) {
		logger.Sugar.Errorf("Failed to insert account %s: %v", acc.Email, err)
	}
	return err
}

func (r *AccountRepository) AttachGoogleID(id, googleID string) error {
	_, err := r.DB.Exec(
		"UPDATE users SET google_id = $1, updated_at = NOW() WHERE id = $2", googleID, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to attach google id to account %s: %v", id, err)
	}
	return err
}

func (r *AccountRepository) InsertSettings(userID string) error {
	_, err := r.DB.Exec("INSERT INTO user_settings (user_id) VALUES ($1)", userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to insert settings for account %s: %v", userID, err)
	}
	return err
}

func (r *AccountRepository) GetSettings(userID string) (*model.Settings, error) {
	var s model.Settings
	err := r.DB.QueryRow(
		`SELECT user_id, theme, language, auto_save, ai_assistance, created_at, updated_at
		 FROM user_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.Theme, &s.Language, &s.AutoSave, &s.AIAssistance, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get settings for account %s: %v", userID, err)
		return nil, err
	}
	return &s, nil
}

// UpdateSettings rewrites only the supplied fields.
func (r *AccountRepository) UpdateSettings(userID string, patch model.SettingsUpdate) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Theme != nil {
		add("theme", *patch.Theme)
	}
	if patch.Language != nil {
		add("language", *patch.Language)
	}
	if patch.AutoSave != nil {
		add("auto_save", *patch.AutoSave)
	}
	if patch.AIAssistance != nil {
		add("ai_assistance", *patch.AIAssistance)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE user_settings SET %s, updated_at = NOW() WHERE user_id = $%d",
		strings.Join(sets, ", "), len(args))
	_, err := r.DB.Exec(query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to update settings for account %s: %v", userID, err)
	}
	return err
}
