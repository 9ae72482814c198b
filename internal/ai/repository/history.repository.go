package repository

import (
	"database/sql"

	"github.com/Solvent24/wps-ai/internal/ai/model"
	"github.com/Solvent24/wps-ai/pkg/logger"
)

// HistoryRepository appends to and reads the ai_processing_history log. Rows
// are never updated or deleted here.
type HistoryRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Insert(rec *model.HistoryRecord) error {
	_, err := r.DB.Exec(
		`INSERT INTO ai_processing_history (id, document_id, user_id, ai_action, input_data, output_data, processing_time_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		rec.ID, rec.DocumentID, rec.UserID, rec.Action,
		[]byte(rec.InputData), []byte(rec.OutputData), rec.ProcessingTimeMS)
	if err != nil {
		logger.Sugar.Errorf("Failed to record AI invocation %s: %v", rec.ID, err)
	}
	return err
}

func (r *HistoryRepository) ListByUser(userID string, limit int) ([]*model.HistoryRecord, error) {
	rows, err := r.DB.Query(
		`SELECT id, document_id, user_id, ai_action, input_data, output_data, processing_time_ms, created_at
		 FROM ai_processing_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		logger.Sugar.Errorf("Failed to list AI history for user %s: %v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var records []*model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		var input, output []byte
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.UserID, &rec.Action,
			&input, &output, &rec.ProcessingTimeMS, &rec.CreatedAt); err != nil {
			logger.Sugar.Errorf("Failed to scan AI history row: %v", err)
			continue
		}
		rec.InputData = input
		rec.OutputData = output
		records = append(records, &rec)
	}
	return records, rows.Err()
}
