package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Solvent24/wps-ai/internal/account/model"
	"github.com/Solvent24/wps-ai/internal/account/service"
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/internal/identity"
	"github.com/Solvent24/wps-ai/middleware"
	"github.com/Solvent24/wps-ai/pkg/logger"
	"github.com/Solvent24/wps-ai/pkg/token"
)

type AuthHandler struct {
	Service     *service.AccountService
	Provider    identity.Provider
	JWTSecret   string
	FrontendURL string
}

func NewAuthHandler(svc *service.AccountService, provider identity.Provider, jwtSecret, frontendURL string) *AuthHandler {
	return &AuthHandler{Service: svc, Provider: provider, JWTSecret: jwtSecret, FrontendURL: frontendURL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.Service.Register(req)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to register %s: %v", req.Email, err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	h.writeToken(w, acc.ID, acc)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.Service.Authenticate(req.Email, req.Password)
	if err != nil {
		logger.Sugar.Errorf("Handler: Login failed for %s: %v", req.Email, err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if acc == nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	h.writeToken(w, acc.ID, acc)
}

// GoogleLogin redirects the browser to the provider's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	http.Redirect(w, r, h.Provider.AuthURL("state"), http.StatusTemporaryRedirect)
}

// GoogleCallback completes the sign-in: it exchanges the code, resolves the
// verified identity onto a local account, and hands the browser back to the
// frontend with a session token.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "Missing authorization code")
		return
	}

	id, err := h.Provider.Exchange(r.Context(), code)
	if err != nil {
		logger.Sugar.Errorf("Handler: OAuth exchange failed: %v", err)
		h.redirectError(w, r, "Authentication failed: "+err.Error())
		return
	}

	acc, err := h.Service.ResolveOrCreate(id.Email, id.Name, id.Subject, id.Picture)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to resolve account for %s: %v", id.Email, err)
		h.redirectError(w, r, "Authentication failed: "+err.Error())
		return
	}

	accessToken, err := token.Issue(acc.ID, h.JWTSecret)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to issue token: %v", err)
		h.redirectError(w, r, "Authentication failed")
		return
	}

	redirect := h.FrontendURL + "/auth/success?token=" + url.QueryEscape(accessToken) + "&user_id=" + url.QueryEscape(acc.ID)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) redirectError(w http.ResponseWriter, r *http.Request, message string) {
	http.Redirect(w, r, h.FrontendURL+"/auth/error?message="+url.QueryEscape(message), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	acc, err := h.Service.GetByID(middleware.UserID(r))
	if err != nil {
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acc)
}

// Settings serves both reads and sparse updates of the caller's preferences.
func (h *AuthHandler) Settings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	switch r.Method {
	case http.MethodGet:
		settings, err := h.Service.GetSettings(userID)
		if err != nil {
			http.Error(w, err.Error(), apperr.HTTPStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)

	case http.MethodPut:
		var patch model.SettingsUpdate
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		settings, err := h.Service.UpdateSettings(userID, patch)
		if err != nil {
			logger.Sugar.Errorf("Handler: Failed to update settings for %s: %v", userID, err)
			http.Error(w, err.Error(), apperr.HTTPStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AuthHandler) writeToken(w http.ResponseWriter, userID string, acc *model.Account) {
	accessToken, err := token.Issue(userID, h.JWTSecret)
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to issue token: %v", err)
		http.Error(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		User:        acc,
	})
}
