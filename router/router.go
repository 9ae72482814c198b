package router

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/Solvent24/wps-ai/config"
	accountHandler "github.com/Solvent24/wps-ai/internal/account"
	accountRepo "github.com/Solvent24/wps-ai/internal/account/repository"
	accountService "github.com/Solvent24/wps-ai/internal/account/service"
	aiHandler "github.com/Solvent24/wps-ai/internal/ai"
	aiRepo "github.com/Solvent24/wps-ai/internal/ai/repository"
	aiService "github.com/Solvent24/wps-ai/internal/ai/service"
	docHandler "github.com/Solvent24/wps-ai/internal/document"
	docRepo "github.com/Solvent24/wps-ai/internal/document/repository"
	docService "github.com/Solvent24/wps-ai/internal/document/service"
	"github.com/Solvent24/wps-ai/internal/identity"
	"github.com/Solvent24/wps-ai/middleware"
	"github.com/Solvent24/wps-ai/pkg/genai"
	"github.com/Solvent24/wps-ai/socket"
)

func Setup(cfg *config.Config, db *sql.DB, hub *socket.Hub) http.Handler {
	mux := http.NewServeMux()

	var generator genai.Generator
	if cfg.GeminiAPIKey != "" {
		generator = genai.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	accounts := accountService.NewAccountService(accountRepo.NewAccountRepository(db))
	documents := docService.NewDocumentService(docRepo.NewDocumentRepository(db), hub)
	ai := aiService.NewAIService(aiRepo.NewHistoryRepository(db), generator, hub)

	provider := identity.NewGoogleProvider(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	auth := accountHandler.NewAuthHandler(accounts, provider, cfg.JWTSecret, cfg.FrontendURL)
	docs := docHandler.NewDocumentHandler(documents)
	aiAPI := aiHandler.NewAIHandler(ai, documents)

	authed := middleware.Auth(cfg.JWTSecret)

	// Health
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "WPS Office Clone API", "status": "running"})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		aiStatus := "fallback"
		if generator != nil {
			aiStatus = "available"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy", "database": "connected", "ai_service": aiStatus,
		})
	})

	// Authentication
	mux.HandleFunc("/api/auth/register", auth.Register)
	mux.HandleFunc("/api/auth/login", auth.Login)
	mux.HandleFunc("/api/auth/google/login", auth.GoogleLogin)
	mux.HandleFunc("/api/auth/google/callback", auth.GoogleCallback)

	// User
	mux.Handle("/api/user/me", authed(http.HandlerFunc(auth.Me)))
	mux.Handle("/api/user/settings", authed(http.HandlerFunc(auth.Settings)))

	// Documents
	mux.Handle("/api/documents/create", authed(http.HandlerFunc(docs.CreateDocument)))
	mux.Handle("/api/documents/get", authed(http.HandlerFunc(docs.GetDocument)))
	mux.Handle("/api/documents/update", authed(http.HandlerFunc(docs.UpdateDocument)))
	mux.Handle("/api/documents/delete", authed(http.HandlerFunc(docs.DeleteDocument)))
	mux.Handle("/api/documents/search", authed(http.HandlerFunc(docs.SearchDocuments)))
	mux.Handle("/api/documents", authed(http.HandlerFunc(docs.GetDocuments)))

	// AI
	mux.Handle("/api/ai/process", authed(http.HandlerFunc(aiAPI.Process)))
	mux.Handle("/api/ai/history", authed(http.HandlerFunc(aiAPI.History)))
	mux.Handle("/api/ai/chat-with-document", authed(http.HandlerFunc(aiAPI.ChatWithDocument)))
	mux.Handle("/api/ai/improve-writing", authed(http.HandlerFunc(aiAPI.ImproveWriting)))

	// WebSocket event stream
	wsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r, middleware.UserID(r))
	})
	mux.Handle("/ws", authed(wsHandler))

	return middleware.CORSMiddleware(mux)
}
