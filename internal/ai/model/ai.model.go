package model

import (
	"encoding/json"
	"time"
)

// Action is the closed set of AI operations the dispatcher routes on.
type Action string

const (
	ActionSummarize       Action = "summarize"
	ActionGrammarCheck    Action = "grammar_check"
	ActionTranslate       Action = "translate"
	ActionAnalyzeData     Action = "analyze_data"
	ActionFormat          Action = "format"
	ActionGenerateContent Action = "generate_content"
)

// Output payloads carry a "type" tag telling the client how the result was
// produced.
const (
	ResultAIGenerated = "ai_generated"
	ResultFallback    = "fallback"
)

// Sentinel document IDs for invocations not tied to a stored document.
const (
	DocumentIDChat               = "chat"
	DocumentIDWritingImprovement = "writing_improvement"
)

type Request struct {
	Action      Action                 `json:"action"`
	DocumentID  string                 `json:"document_id"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	TextContent string                 `json:"text_content,omitempty"`
}

type Response struct {
	ID               string                 `json:"id"`
	Action           Action                 `json:"action"`
	InputData        map[string]interface{} `json:"input_data"`
	OutputData       map[string]interface{} `json:"output_data"`
	ProcessingTimeMS int64                  `json:"processing_time_ms"`
	CreatedAt        time.Time              `json:"created_at"`
}

// HistoryRecord is one row of the append-only invocation log.
type HistoryRecord struct {
	ID               string          `json:"id"`
	DocumentID       string          `json:"document_id"`
	UserID           string          `json:"user_id"`
	Action           Action          `json:"ai_action"`
	InputData        json.RawMessage `json:"input_data"`
	OutputData       json.RawMessage `json:"output_data"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	CreatedAt        time.Time       `json:"created_at"`
}

type ChatRequest struct {
	DocumentID      string `json:"document_id"`
	DocumentContent string `json:"document_content"`
	Question        string `json:"question"`
}

type ChatResponse struct {
	Answer   string `json:"answer"`
	Question string `json:"question"`
	Type     string `json:"type"`
}

type ImproveWritingRequest struct {
	Text            string `json:"text"`
	ImprovementType string `json:"improvement_type"`
}
