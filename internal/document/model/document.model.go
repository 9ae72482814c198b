package model

import (
	"encoding/json"
	"time"
)

// DocumentType is the closed set of editor surfaces a document belongs to.
type DocumentType string

const (
	TypeWriter       DocumentType = "writer"
	TypeSpreadsheet  DocumentType = "spreadsheet"
	TypePresentation DocumentType = "presentation"
	TypePDF          DocumentType = "pdf"
)

func (t DocumentType) Valid() bool {
	switch t {
	case TypeWriter, TypeSpreadsheet, TypePresentation, TypePDF:
		return true
	}
	return false
}

// Document content is opaque JSON; its shape depends on the document type
// and is not validated by this layer.
type Document struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Title        string          `json:"title"`
	DocumentType DocumentType    `json:"document_type"`
	Content      json.RawMessage `json:"content,omitempty"`
	FilePath     *string         `json:"file_path,omitempty"`
	FileSize     *int64          `json:"file_size,omitempty"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CreateDocRequest struct {
	Title        string          `json:"title"`
	DocumentType DocumentType    `json:"document_type"`
	Content      json.RawMessage `json:"content,omitempty"`
}

// UpdateDocRequest is a sparse patch: nil fields keep their stored values.
type UpdateDocRequest struct {
	Title   *string         `json:"title"`
	Content json.RawMessage `json:"content"`
	Version *int            `json:"version"`
}

type SearchResponse struct {
	Results []*Document `json:"results"`
	Total   int         `json:"total"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
