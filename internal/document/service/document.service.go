package service

import (
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/internal/document/model"
	"github.com/Solvent24/wps-ai/internal/document/repository"
	"github.com/Solvent24/wps-ai/socket"

	"github.com/google/uuid"
)

type DocumentService struct {
	Repo *repository.DocumentRepository
	Hub  *socket.Hub
}

func NewDocumentService(repo *repository.DocumentRepository, hub *socket.Hub) *DocumentService {
	return &DocumentService{Repo: repo, Hub: hub}
}

func (s *DocumentService) Create(userID string, req model.CreateDocRequest) (*model.Document, error) {
	if req.Title == "" {
		req.Title = "Untitled Document"
	}
	if !req.DocumentType.Valid() {
		return nil, apperr.Validation("invalid document type %q", req.DocumentType)
	}

	doc := &model.Document{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		DocumentType: req.DocumentType,
		Content:      req.Content,
		Version:      1,
	}
	if err := s.Repo.Create(doc); err != nil {
		return nil, apperr.Persistence("create document", err)
	}

	created, err := s.Get(doc.ID, userID)
	if err != nil {
		return nil, err
	}
	s.notify(socket.EventDocumentCreated, userID, created)
	return created, nil
}

// Get enforces ownership scoping: a document owned by someone else is
// indistinguishable from one that does not exist.
func (s *DocumentService) Get(docID, userID string) (*model.Document, error) {
	doc, err := s.Repo.GetOwned(docID, userID)
	if err != nil {
		return nil, apperr.Persistence("get document", err)
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}
	return doc, nil
}

func (s *DocumentService) List(userID string, docType model.DocumentType) ([]*model.Document, error) {
	if docType != "" && !docType.Valid() {
		return nil, apperr.Validation("invalid document type %q", docType)
	}
	docs, err := s.Repo.ListByUser(userID, docType)
	if err != nil {
		return nil, apperr.Persistence("list documents", err)
	}
	if docs == nil {
		docs = []*model.Document{}
	}
	return docs, nil
}

// Update applies a sparse patch: unsupplied fields keep their prior values,
// and the modification timestamp always advances.
func (s *DocumentService) Update(docID, userID string, patch model.UpdateDocRequest) (*model.Document, error) {
	if _, err := s.Get(docID, userID); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(docID, patch); err != nil {
		return nil, apperr.Persistence("update document", err)
	}

	updated, err := s.Get(docID, userID)
	if err != nil {
		return nil, err
	}
	s.notify(socket.EventDocumentUpdated, userID, updated)
	return updated, nil
}

func (s *DocumentService) Delete(docID, userID string) (bool, error) {
	deleted, err := s.Repo.DeleteOwned(docID, userID)
	if err != nil {
		return false, apperr.Persistence("delete document", err)
	}
	if deleted {
		s.notify(socket.EventDocumentDeleted, userID, map[string]string{"id": docID})
	}
	return deleted, nil
}

func (s *DocumentService) Search(userID, query string, docType model.DocumentType) ([]*model.Document, error) {
	if docType != "" && !docType.Valid() {
		return nil, apperr.Validation("invalid document type %q", docType)
	}
	docs, err := s.Repo.Search(userID, query, docType)
	if err != nil {
		return nil, apperr.Persistence("search documents", err)
	}
	if docs == nil {
		docs = []*model.Document{}
	}
	return docs, nil
}

func (s *DocumentService) notify(event, userID string, payload interface{}) {
	if s.Hub != nil {
		s.Hub.Notify(event, userID, payload)
	}
}
