package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Solvent24/wps-ai/internal/document/model"
	"github.com/Solvent24/wps-ai/pkg/logger"
)

const documentColumns = "id, user_id, title, document_type, content, file_path, file_size, version, created_at, updated_at"

type DocumentRepository struct {
	DB *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func scanDocument(scan func(dest ...interface{}) error) (*model.Document, error) {
	var doc model.Document
	var content []byte
	var filePath sql.NullString
	var fileSize sql.NullInt64
	err := scan(&doc.ID, &doc.UserID, &doc.Title, &doc.DocumentType, &content,
		&filePath, &fileSize, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		doc.Content = content
	}
	if filePath.Valid {
		doc.FilePath = &filePath.String
	}
	if fileSize.Valid {
		doc.FileSize = &fileSize.Int64
	}
	return &doc, nil
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	_, err := r.DB.Exec(
		`INSERT INTO documents (id, user_id, title, document_type, content, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		doc.ID, doc.UserID, doc.Title, doc.DocumentType, nullableJSON(doc.Content), doc.Version)
	if err != nil {
		logger.Sugar.Errorf("Failed to create document: %v", err)
	}
	return err
}

// GetOwned returns the document only when it belongs to userID; any other
// case, including an ownership mismatch, looks like absence.
func (r *DocumentRepository) GetOwned(docID, userID string) (*model.Document, error) {
	row := r.DB.QueryRow(
		"SELECT "+documentColumns+" FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get document %s: %v", docID, err)
		return nil, err
	}
	return doc, nil
}

func (r *DocumentRepository) ListByUser(userID string, docType model.DocumentType) ([]*model.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents WHERE user_id = $1"
	args := []interface{}{userID}
	if docType != "" {
		query += " AND document_type = $2"
		args = append(args, docType)
	}
	query += " ORDER BY updated_at DESC"
	return r.queryDocuments(query, args...)
}

// Search matches the query as a substring of the title only, scoped to the
// owner, newest-updated first.
func (r *DocumentRepository) Search(userID, query string, docType model.DocumentType) ([]*model.Document, error) {
	q := "SELECT " + documentColumns + " FROM documents WHERE user_id = $1 AND title LIKE $2"
	args := []interface{}{userID, "%" + query + "%"}
	if docType != "" {
		q += " AND document_type = $3"
		args = append(args, docType)
	}
	q += " ORDER BY updated_at DESC"
	return r.queryDocuments(q, args...)
}

func (r *DocumentRepository) queryDocuments(query string, args ...interface{}) ([]*model.Document, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to query documents: %v", err)
		return nil, err
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			logger.Sugar.Errorf("Failed to scan document row: %v", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Update rewrites only the supplied fields and always refreshes updated_at.
func (r *DocumentRepository) Update(docID string, patch model.UpdateDocRequest) error {
	var sets []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", []byte(patch.Content))
	}
	if patch.Version != nil {
		add("version", *patch.Version)
	}

	args = append(args, docID)
	setClause := "updated_at = NOW()"
	if len(sets) > 0 {
		setClause = strings.Join(sets, ", ") + ", updated_at = NOW()"
	}
	query := fmt.Sprintf("UPDATE documents SET %s WHERE id = $%d", setClause, len(args))

	_, err := r.DB.Exec(query, args...)
	if err != nil {
		logger.Sugar.Errorf("Failed to update document %s: %v", docID, err)
	}
	return err
}

// DeleteOwned removes the document only when userID owns it and reports
// whether a row went away.
func (r *DocumentRepository) DeleteOwned(docID, userID string) (bool, error) {
	result, err := r.DB.Exec("DELETE FROM documents WHERE id = $1 AND user_id = $2", docID, userID)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete document %s: %v", docID, err)
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
