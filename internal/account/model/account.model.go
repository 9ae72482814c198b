package model

import "time"

// Account is the stored user row. PasswordHash is never serialized; for
// accounts created through Google sign-in it holds a sentinel value instead
// of a real hash.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	GoogleID     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        *Account `json:"user"`
}

// Settings is the one-to-one preferences row created alongside every account.
type Settings struct {
	UserID       string    `json:"user_id"`
	Theme        string    `json:"theme"`
	Language     string    `json:"language"`
	AutoSave     bool      `json:"auto_save"`
	AIAssistance bool      `json:"ai_assistance"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SettingsUpdate is a sparse patch; nil fields keep their stored values.
type SettingsUpdate struct {
	Theme        *string `json:"theme"`
	Language     *string `json:"language"`
	AutoSave     *bool   `json:"auto_save"`
	AIAssistance *bool   `json:"ai_assistance"`
}
