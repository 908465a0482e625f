package openai_impl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"review_pal/log"
	"review_pal/model"
)

// Complete sends the prompt as a system message to the chat-completions
// endpoint and returns the generated text.
func (hc *HttpClient) Complete(prompt string) (string, error) {
	apiURL := fmt.Sprintf("%s/v1/chat/completions", hc.baseURL)
	log.Debugf("Requesting completion from %s with model %s", apiURL, hc.model)

	payload := model.ChatCompletionRequest{
		Model: hc.model,
		Messages: []model.ChatMessage{
			{Role: "system", Content: prompt},
		},
		MaxTokens:   hc.maxTokens,
		Temperature: hc.temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Error(err)
		return "", err
	}

	req, err := http.NewRequest("POST", apiURL, strings.NewReader(string(body)))
	if err != nil {
		log.Error(err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+hc.apiKey)

	resp, err := hc.http.Do(req)
	if err != nil {
		log.Error(err)
		return "", err
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err)
		return "", err
	}

	if resp.StatusCode != 200 {
		var errResp model.OpenAIErrorResponse
		if err := json.Unmarshal(rawBody, &errResp); err == nil && errResp.Error.Message != "" {
			log.Errorf("Completion request failed. Status: %d, Message: %s", resp.StatusCode, errResp.Error.Message)
			return "", fmt.Errorf("completion request failed, status: %d, message: %s", resp.StatusCode, errResp.Error.Message)
		}
		log.Errorf("Completion request failed. Status: %d, Body: %s", resp.StatusCode, string(rawBody))
		return "", fmt.Errorf("completion request failed, status: %d", resp.StatusCode)
	}

	var result model.ChatCompletionResponse
	if err := json.Unmarshal(rawBody, &result); err != nil {
		log.Error(err)
		return "", err
	}
	if len(result.Choices) == 0 {
		log.Errorf("Completion response contained no choices")
		return "", fmt.Errorf("completion response contained no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
