package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Solvent24/wps-ai/internal/ai/model"
	"github.com/Solvent24/wps-ai/internal/ai/service"
	"github.com/Solvent24/wps-ai/internal/apperr"
	docservice "github.com/Solvent24/wps-ai/internal/document/service"
	"github.com/Solvent24/wps-ai/middleware"
	"github.com/Solvent24/wps-ai/pkg/logger"
)

type AIHandler struct {
	Service   *service.AIService
	Documents *docservice.DocumentService
}

func NewAIHandler(svc *service.AIService, documents *docservice.DocumentService) *AIHandler {
	return &AIHandler{Service: svc, Documents: documents}
}

func (h *AIHandler) Process(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.Dispatch(req, middleware.UserID(r))
	if err != nil {
		logger.Sugar.Errorf("Handler: AI dispatch failed: %v", err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *AIHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Service.History(middleware.UserID(r), limit)
	if err != nil {
		logger.Sugar.Errorf("Error fetching AI history: %v", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// ChatWithDocument resolves the document text (request-supplied or fetched by
// id) before handing off to the AI service.
func (h *AIHandler) ChatWithDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID := middleware.UserID(r)
	content := req.DocumentContent
	if content == "" && req.DocumentID != "" && req.DocumentID != model.DocumentIDChat {
		doc, err := h.Documents.Get(req.DocumentID, userID)
		if err != nil && !apperr.IsNotFound(err) {
			http.Error(w, err.Error(), apperr.HTTPStatus(err))
			return
		}
		if doc != nil && len(doc.Content) > 0 {
			content = string(doc.Content)
		}
	}

	resp, err := h.Service.ChatWithDocument(content, req.Question, userID)
	if err != nil {
		logger.Sugar.Errorf("Handler: Chat with document failed: %v", err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ImproveWriting is a document-less shortcut over the format action.
func (h *AIHandler) ImproveWriting(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.ImproveWritingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}
	if req.ImprovementType == "" {
		req.ImprovementType = "professional"
	}

	resp, err := h.Service.Dispatch(model.Request{
		Action:      model.ActionFormat,
		DocumentID:  model.DocumentIDWritingImprovement,
		Parameters:  map[string]interface{}{"format_type": req.ImprovementType},
		TextContent: req.Text,
	}, middleware.UserID(r))
	if err != nil {
		logger.Sugar.Errorf("Handler: Improve writing failed: %v", err)
		http.Error(w, err.Error(), apperr.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
