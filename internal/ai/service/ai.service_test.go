package service

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Solvent24/wps-ai/internal/ai/model"
	"github.com/Solvent24/wps-ai/internal/ai/repository"
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/pkg/genai"
	"github.com/Solvent24/wps-ai/pkg/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGenerator struct{ out string }

func (g fixedGenerator) Generate(string) (string, error) { return g.out, nil }

type failingGenerator struct{ err error }

func (g failingGenerator) Generate(string) (string, error) { return "", g.err }

func newAIService(t *testing.T, gen genai.Generator) (*AIService, sqlmock.Sqlmock, func()) {
	t.Helper()
	logger.Init()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewAIService(repository.NewHistoryRepository(db), gen, nil), mock, func() { db.Close() }
}

func expectHistoryInsert(mock sqlmock.Sqlmock, docID, userID string, action model.Action) {
	mock.ExpectExec("INSERT INTO ai_processing_history").
		WithArgs(sqlmock.AnyArg(), docID, userID, string(action),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestDispatch_SummarizeFallbackWithoutClient(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	expectHistoryInsert(mock, "doc1", "acct1", model.ActionSummarize)

	resp, err := svc.Dispatch(model.Request{
		Action:      model.ActionSummarize,
		DocumentID:  "doc1",
		TextContent: "S1. S2. S3. S4.",
	}, "acct1")
	require.NoError(t, err)

	assert.Equal(t, "S1. S2. S3.", resp.OutputData["summary"])
	assert.Equal(t, model.ResultFallback, resp.OutputData["type"])
	assert.Equal(t, model.ActionSummarize, resp.Action)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMS, int64(0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_EveryActionFallsBackWithoutClient(t *testing.T) {
	actions := []model.Action{
		model.ActionSummarize,
		model.ActionGrammarCheck,
		model.ActionTranslate,
		model.ActionAnalyzeData,
		model.ActionFormat,
		model.ActionGenerateContent,
	}
	for _, action := range actions {
		t.Run(string(action), func(t *testing.T) {
			svc, mock, done := newAIService(t, nil)
			defer done()

			expectHistoryInsert(mock, "doc1", "acct1", action)

			resp, err := svc.Dispatch(model.Request{
				Action:      action,
				DocumentID:  "doc1",
				TextContent: "Some text.",
			}, "acct1")
			require.NoError(t, err)
			assert.Equal(t, model.ResultFallback, resp.OutputData["type"])
			assert.GreaterOrEqual(t, resp.ProcessingTimeMS, int64(0))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDispatch_FallsBackWhenExternalCallFails(t *testing.T) {
	svc, mock, done := newAIService(t, failingGenerator{err: errors.New("quota exceeded")})
	defer done()

	expectHistoryInsert(mock, "doc1", "acct1", model.ActionTranslate)

	resp, err := svc.Dispatch(model.Request{
		Action:      model.ActionTranslate,
		DocumentID:  "doc1",
		Parameters:  map[string]interface{}{"target_language": "German"},
		TextContent: "unchanged input",
	}, "acct1")
	require.NoError(t, err)

	// External failure degrades to the identity transform, never an error.
	assert.Equal(t, "unchanged input", resp.OutputData["translated"])
	assert.Equal(t, model.ResultFallback, resp.OutputData["type"])
	assert.Contains(t, resp.OutputData["error"], "quota exceeded")
}

func TestDispatch_UsesGeneratorWhenConfigured(t *testing.T) {
	svc, mock, done := newAIService(t, fixedGenerator{out: "Corrected text.\n"})
	defer done()

	expectHistoryInsert(mock, "doc1", "acct1", model.ActionGrammarCheck)

	resp, err := svc.Dispatch(model.Request{
		Action:      model.ActionGrammarCheck,
		DocumentID:  "doc1",
		TextContent: "Corected text.",
	}, "acct1")
	require.NoError(t, err)

	assert.Equal(t, "Corrected text.", resp.OutputData["corrected"])
	assert.Equal(t, "Corected text.", resp.OutputData["original"])
	assert.Equal(t, model.ResultAIGenerated, resp.OutputData["type"])
}

func TestDispatch_AnalyzeDataFallbackCountsRowsAndColumns(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	expectHistoryInsert(mock, "doc1", "acct1", model.ActionAnalyzeData)

	resp, err := svc.Dispatch(model.Request{
		Action:     model.ActionAnalyzeData,
		DocumentID: "doc1",
		Parameters: map[string]interface{}{
			"data": []interface{}{
				[]interface{}{"Item", "Cost"},
				[]interface{}{"Laptop", "1000"},
				[]interface{}{"Software", "200"},
			},
		},
	}, "acct1")
	require.NoError(t, err)

	assert.Equal(t, 3, resp.OutputData["row_count"])
	assert.Equal(t, 2, resp.OutputData["column_count"])
	assert.Equal(t, model.ResultFallback, resp.OutputData["type"])
}

func TestDispatch_UnsupportedActionIsRecordedNotFatal(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	expectHistoryInsert(mock, "doc1", "acct1", model.Action("poetry"))

	resp, err := svc.Dispatch(model.Request{
		Action:     "poetry",
		DocumentID: "doc1",
	}, "acct1")
	require.NoError(t, err)

	assert.Contains(t, resp.OutputData["error"], "unsupported AI action")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatch_FailsOnlyWhenRecordWriteFails(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	mock.ExpectExec("INSERT INTO ai_processing_history").
		WillReturnError(errors.New("disk full"))

	_, err := svc.Dispatch(model.Request{
		Action:      model.ActionSummarize,
		DocumentID:  "doc1",
		TextContent: "text",
	}, "acct1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persistence")
}

func TestChatWithDocument_ValidatesBeforeAnyCall(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	_, err := svc.ChatWithDocument("", "What is this?", "acct1")
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.ChatWithDocument("Some content", "", "acct1")
	assert.True(t, apperr.IsValidation(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatWithDocument_SentinelAnswerWithoutClient(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	expectHistoryInsert(mock, model.DocumentIDChat, "acct1", model.ActionGenerateContent)

	resp, err := svc.ChatWithDocument("The yearly budget is 40k.", "What is the budget?", "acct1")
	require.NoError(t, err)

	assert.Equal(t, "AI service not available", resp.Answer)
	assert.Equal(t, model.ResultFallback, resp.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatWithDocument_AnswersFromGenerator(t *testing.T) {
	svc, mock, done := newAIService(t, fixedGenerator{out: "The budget is 40k."})
	defer done()

	expectHistoryInsert(mock, model.DocumentIDChat, "acct1", model.ActionGenerateContent)

	resp, err := svc.ChatWithDocument("The yearly budget is 40k.", "What is the budget?", "acct1")
	require.NoError(t, err)

	assert.Equal(t, "The budget is 40k.", resp.Answer)
	assert.Equal(t, model.ResultAIGenerated, resp.Type)
}

func TestHistory_DefaultsLimitAndOrdersNewestFirst(t *testing.T) {
	svc, mock, done := newAIService(t, nil)
	defer done()

	now := time.Now()
	output, _ := json.Marshal(map[string]string{"summary": "s"})
	rows := sqlmock.NewRows([]string{"id", "document_id", "user_id", "ai_action", "input_data", "output_data", "processing_time_ms", "created_at"}).
		AddRow("h2", "doc1", "acct1", "summarize", []byte(`{}`), output, 12, now).
		AddRow("h1", "doc1", "acct1", "translate", []byte(`{}`), output, 7, now.Add(-time.Minute))

	mock.ExpectQuery(regexp.QuoteMeta("FROM ai_processing_history WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2")).
		WithArgs("acct1", 10).
		WillReturnRows(rows)

	records, err := svc.History("acct1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "h2", records[0].ID)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
}
