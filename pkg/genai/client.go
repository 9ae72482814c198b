// Package genai is a minimal client for the Gemini text generation API.
// Every failure mode (transport, status, empty response) comes back as an
// error; the AI service treats any error as "use the local fallback".
package genai

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator is the single-shot text generation contract the AI service
// depends on. A nil Generator means no external service is configured.
type Generator interface {
	Generate(prompt string) (string, error)
}

type Client struct {
	http   *resty.Client
	apiKey string
	model  string
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		http:   resty.New().SetBaseURL(baseURL).SetTimeout(60 * time.Second),
		apiKey: apiKey,
		model:  model,
	}
}

// Generate performs a single generateContent call and returns the first
// candidate's text.
func (c *Client) Generate(prompt string) (string, error) {
	var out generateResponse
	resp, err := c.http.R().
		SetQueryParam("key", c.apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&out).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response contained no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
