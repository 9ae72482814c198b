package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Solvent24/wps-ai/internal/ai/model"
	"github.com/Solvent24/wps-ai/internal/ai/repository"
	"github.com/Solvent24/wps-ai/internal/apperr"
	"github.com/Solvent24/wps-ai/pkg/genai"
	"github.com/Solvent24/wps-ai/socket"

	"github.com/google/uuid"
)

// AIService routes action tags to single-shot generation calls and degrades
// to deterministic local transforms when the external service is missing or
// failing. Every invocation lands in the history log.
type AIService struct {
	Repo      *repository.HistoryRepository
	Generator genai.Generator
	Hub       *socket.Hub
}

func NewAIService(repo *repository.HistoryRepository, generator genai.Generator, hub *socket.Hub) *AIService {
	return &AIService{Repo: repo, Generator: generator, Hub: hub}
}

// Dispatch runs one AI action. The returned error is non-nil only when the
// history write failed; unsupported actions and external failures come back
// as structured output payloads.
func (s *AIService) Dispatch(req model.Request, userID string) (*model.Response, error) {
	start := time.Now()

	var output map[string]interface{}
	switch req.Action {
	case model.ActionSummarize:
		output = s.summarize(req.TextContent)
	case model.ActionGrammarCheck:
		output = s.checkGrammar(req.TextContent)
	case model.ActionTranslate:
		output = s.translate(req.TextContent, req.Parameters)
	case model.ActionAnalyzeData:
		output = s.analyzeData(req.Parameters)
	case model.ActionFormat:
		output = s.formatContent(req.TextContent, req.Parameters)
	case model.ActionGenerateContent:
		output = s.generateContent(req.Parameters)
	default:
		output = map[string]interface{}{"error": fmt.Sprintf("unsupported AI action %q", req.Action)}
	}

	elapsed := time.Since(start).Milliseconds()
	resp, err := s.record(req, userID, output, elapsed)
	if err != nil {
		return nil, err
	}
	if s.Hub != nil {
		s.Hub.Notify(socket.EventAICompleted, userID, resp)
	}
	return resp, nil
}

// ChatWithDocument answers a question over document text. Both inputs are
// required; with no working generator the answer degrades to an explicit
// unavailability sentinel.
func (s *AIService) ChatWithDocument(documentContent, question, userID string) (*model.ChatResponse, error) {
	if documentContent == "" {
		return nil, apperr.Validation("no document content provided")
	}
	if question == "" {
		return nil, apperr.Validation("no question provided")
	}

	start := time.Now()
	resp := &model.ChatResponse{Question: question}

	if s.Generator == nil {
		resp.Answer = "AI service not available"
		resp.Type = model.ResultFallback
	} else {
		prompt := fmt.Sprintf(
			"Based on the following document content, please answer the user's question.\n\n"+
				"DOCUMENT CONTENT:\n%s\n\nUSER QUESTION:\n%s\n\n"+
				"Please provide a helpful and accurate answer based solely on the document content.",
			documentContent, question)
		answer, err := s.Generator.Generate(prompt)
		if err != nil {
			resp.Answer = "AI service not available"
			resp.Type = model.ResultFallback
		} else {
			resp.Answer = strings.TrimSpace(answer)
			resp.Type = model.ResultAIGenerated
		}
	}

	req := model.Request{
		Action:     model.ActionGenerateContent,
		DocumentID: model.DocumentIDChat,
		Parameters: map[string]interface{}{
			"question":        question,
			"document_length": len(documentContent),
		},
		TextContent: documentContent,
	}
	output := map[string]interface{}{
		"answer":   resp.Answer,
		"question": question,
		"type":     resp.Type,
	}
	if _, err := s.record(req, userID, output, time.Since(start).Milliseconds()); err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *AIService) History(userID string, limit int) ([]*model.HistoryRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.Repo.ListByUser(userID, limit)
	if err != nil {
		return nil, apperr.Persistence("list ai history", err)
	}
	if records == nil {
		records = []*model.HistoryRecord{}
	}
	return records, nil
}

func (s *AIService) record(req model.Request, userID string, output map[string]interface{}, elapsedMS int64) (*model.Response, error) {
	input := map[string]interface{}{
		"text_content": req.TextContent,
		"parameters":   req.Parameters,
	}
	inputJSON, _ := json.Marshal(input)
	outputJSON, _ := json.Marshal(output)

	rec := &model.HistoryRecord{
		ID:               uuid.NewString(),
		DocumentID:       req.DocumentID,
		UserID:           userID,
		Action:           req.Action,
		InputData:        inputJSON,
		OutputData:       outputJSON,
		ProcessingTimeMS: elapsedMS,
	}
	if err := s.Repo.Insert(rec); err != nil {
		return nil, apperr.Persistence("record ai invocation", err)
	}

	return &model.Response{
		ID:               rec.ID,
		Action:           req.Action,
		InputData:        input,
		OutputData:       output,
		ProcessingTimeMS: elapsedMS,
		CreatedAt:        time.Now(),
	}, nil
}

func (s *AIService) generate(prompt string) (string, error) {
	out, err := s.Generator.Generate(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (s *AIService) summarize(text string) map[string]interface{} {
	if s.Generator == nil {
		return map[string]interface{}{"summary": fallbackSummarize(text), "type": model.ResultFallback}
	}
	summary, err := s.generate(
		"Please provide a concise summary of the following text. Focus on the main points and key information:\n\n" + text)
	if err != nil {
		return map[string]interface{}{"summary": fallbackSummarize(text), "type": model.ResultFallback, "error": err.Error()}
	}
	return map[string]interface{}{"summary": summary, "type": model.ResultAIGenerated}
}

func (s *AIService) checkGrammar(text string) map[string]interface{} {
	if s.Generator == nil {
		return map[string]interface{}{"corrections": []interface{}{}, "type": model.ResultFallback}
	}
	corrected, err := s.generate(
		"Please correct any grammar, spelling, or punctuation errors in the following text. Return only the corrected version:\n\n" + text)
	if err != nil {
		return map[string]interface{}{"corrections": []interface{}{}, "type": model.ResultFallback, "error": err.Error()}
	}
	return map[string]interface{}{"original": text, "corrected": corrected, "type": model.ResultAIGenerated}
}

func (s *AIService) translate(text string, params map[string]interface{}) map[string]interface{} {
	target := stringParam(params, "target_language", "English")

	if s.Generator == nil {
		return map[string]interface{}{"translated": text, "type": model.ResultFallback}
	}
	translated, err := s.generate(fmt.Sprintf(
		"Translate the following text to %s. Maintain the original meaning and tone:\n\n%s", target, text))
	if err != nil {
		return map[string]interface{}{"translated": text, "type": model.ResultFallback, "error": err.Error()}
	}
	return map[string]interface{}{
		"original":        text,
		"translated":      translated,
		"target_language": target,
		"type":            model.ResultAIGenerated,
	}
}

func (s *AIService) analyzeData(params map[string]interface{}) map[string]interface{} {
	data, _ := params["data"].([]interface{})
	analysisType := stringParam(params, "analysis_type", "general")

	if s.Generator == nil {
		return fallbackAnalyzeData(data, analysisType)
	}
	if len(data) == 0 {
		return map[string]interface{}{"analysis": "No data provided for analysis", "type": model.ResultFallback}
	}

	analysis, err := s.generate(fmt.Sprintf(
		"Analyze the following data and provide insights. Data type: %s\n\nData:\n%s\n\n"+
			"Please provide:\n1. Key observations\n2. Patterns or trends\n3. Recommendations or insights",
		analysisType, formatDataForAnalysis(data)))
	if err != nil {
		return fallbackAnalyzeData(data, analysisType)
	}
	return map[string]interface{}{
		"analysis": analysis,
		"data_summary": map[string]interface{}{
			"row_count":    len(data),
			"column_count": columnCount(data),
		},
		"type": model.ResultAIGenerated,
	}
}

func (s *AIService) formatContent(text string, params map[string]interface{}) map[string]interface{} {
	formatType := stringParam(params, "format_type", "professional")

	if s.Generator == nil {
		return map[string]interface{}{"formatted": text, "type": model.ResultFallback}
	}
	formatted, err := s.generate(fmt.Sprintf(
		"Please reformat the following text to make it more %s and well-structured:\n\n%s\n\n"+
			"Focus on:\n- Improving readability\n- Proper paragraph structure\n- Clear organization\n- Appropriate tone for %s context",
		formatType, text, formatType))
	if err != nil {
		return map[string]interface{}{"formatted": text, "type": model.ResultFallback, "error": err.Error()}
	}
	return map[string]interface{}{
		"original":    text,
		"formatted":   formatted,
		"format_type": formatType,
		"type":        model.ResultAIGenerated,
	}
}

func (s *AIService) generateContent(params map[string]interface{}) map[string]interface{} {
	contentType := stringParam(params, "content_type", "text")
	topic := stringParam(params, "topic", "general topic")
	length := stringParam(params, "length", "short")
	tone := stringParam(params, "tone", "professional")

	sample := fmt.Sprintf("Sample %s about %s", contentType, topic)
	if s.Generator == nil {
		return map[string]interface{}{"content": sample, "type": model.ResultFallback}
	}
	content, err := s.generate(fmt.Sprintf(
		"Generate a %s %s about %s with a %s tone.\n\nRequirements:\n- Content type: %s\n- Topic: %s\n- Length: %s\n- Tone: %s\n\n"+
			"Please create engaging and well-structured content.",
		length, contentType, topic, tone, contentType, topic, length, tone))
	if err != nil {
		return map[string]interface{}{"content": sample, "type": model.ResultFallback, "error": err.Error()}
	}
	return map[string]interface{}{
		"content":      content,
		"content_type": contentType,
		"topic":        topic,
		"length":       length,
		"tone":         tone,
		"type":         model.ResultAIGenerated,
	}
}

// fallbackSummarize keeps the first three sentences.
func fallbackSummarize(text string) string {
	sentences := strings.Split(text, ".")
	if len(sentences) > 3 {
		return strings.Join(sentences[:3], ".") + "."
	}
	return text
}

func fallbackAnalyzeData(data []interface{}, analysisType string) map[string]interface{} {
	if len(data) > 0 {
		allRows := true
		for _, row := range data {
			if r, ok := row.([]interface{}); !ok || len(r) == 0 {
				allRows = false
				break
			}
		}
		if allRows {
			cols := len(data[0].([]interface{}))
			return map[string]interface{}{
				"row_count":    len(data),
				"column_count": cols,
				"analysis": fmt.Sprintf("Basic %s analysis: Data has %d rows and %d columns",
					analysisType, len(data), cols),
				"type": model.ResultFallback,
			}
		}
	}
	return map[string]interface{}{
		"analysis": fmt.Sprintf("No specific %s analysis performed (AI not available)", analysisType),
		"type":     model.ResultFallback,
	}
}

func formatDataForAnalysis(data []interface{}) string {
	var lines []string
	for i, item := range data {
		if row, ok := item.([]interface{}); ok {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = fmt.Sprint(cell)
			}
			lines = append(lines, fmt.Sprintf("Row %d: %s", i+1, strings.Join(cells, ", ")))
		} else {
			lines = append(lines, fmt.Sprintf("Item %d: %v", i+1, item))
		}
	}
	return strings.Join(lines, "\n")
}

func columnCount(data []interface{}) int {
	if len(data) == 0 {
		return 0
	}
	if row, ok := data[0].([]interface{}); ok {
		return len(row)
	}
	return 1
}

func stringParam(params map[string]interface{}, key, fallback string) string {
	if params == nil {
		return fallback
	}
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
