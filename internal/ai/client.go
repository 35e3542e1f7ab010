// Package ai is the categorization oracle: it maps a bookmark to a
// category path string. The organization engine treats its output as an
// opaque upstream decision.
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"tidymark/internal/model"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	betaHeader   = "structured-outputs-2025-11-13"
	defaultModel = "claude-haiku-4-5-20251001"
)

var (
	ErrNoAPIKey        = errors.New("ANTHROPIC_API_KEY environment variable not set")
	ErrAPIRequest      = errors.New("API request failed")
	ErrInvalidResponse = errors.New("invalid API response")
)

// Client handles communication with the Anthropic API.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a new AI client using the given model name, or the
// package default when empty. Returns an error if ANTHROPIC_API_KEY is
// not set.
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if modelName == "" {
		modelName = defaultModel
	}

	return &Client{
		apiKey: apiKey,
		model:  modelName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SuggestCategory calls the AI to pick a category path for one bookmark.
// The context string describes the existing folder layout (see BuildContext).
func (c *Client) SuggestCategory(bookmark model.ExportedBookmark, context string) (*Suggestion, error) {
	prompt := buildCategoryPrompt(bookmark, context)

	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 256,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
		OutputFormat: &outputFormat{
			Type: "json_schema",
			Schema: jsonSchema{
				Type: "object",
				Properties: map[string]schemaProp{
					"category":   {Type: "string"},
					"confidence": {Type: "string"},
				},
				Required:             []string{"category", "confidence"},
				AdditionalProperties: false,
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("anthropic-beta", betaHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAPIRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPIRequest, resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(apiResp.Content) == 0 || apiResp.Content[0].Type != "text" {
		return nil, ErrInvalidResponse
	}

	var result Suggestion
	if err := json.Unmarshal([]byte(apiResp.Content[0].Text), &result); err != nil {
		return nil, fmt.Errorf("unmarshal AI response: %w", err)
	}

	return &result, nil
}

func buildCategoryPrompt(bookmark model.ExportedBookmark, context string) string {
	return fmt.Sprintf(`Assign this bookmark to a category folder.

Bookmark:
- Title: %s
- URL: %s
- Current folder: %s

%s

Instructions:
- Answer with a category path like "Development/Go" (use "/" between levels, at most 3 levels)
- Prefer existing folders when they fit well
- Only suggest a new category path if nothing existing is appropriate
- If nothing fits at all, use "Uncategorized"
- Confidence: "high" if clear match, "medium" if reasonable, "low" if uncertain`,
		bookmark.Title, bookmark.URL, bookmark.FolderPath, context)
}
