package service

import (
	"bytes"
	"context"
	"encoding/json"
	"eunacom_backend/internal/config"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ConnectivityService exercises the credentials of every third-party API the
// platform depends on. It is what the api_doctor command runs; nothing here
// mutates anything remote.
type ConnectivityService struct {
	AI        config.AIConfig
	Ads       config.AdsConfig
	Analytics config.AnalyticsConfig
	client    *http.Client
}

func NewConnectivityService(cfg *config.Config) *ConnectivityService {
	return &ConnectivityService{
		AI:        cfg.AI,
		Ads:       cfg.Ads,
		Analytics: cfg.Analytics,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type CheckResult struct {
	Target    string `json:"target"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Message   string `json:"message"`
	// Hint tells the operator what to fix when the check fails.
	Hint string `json:"hint,omitempty"`
}

func (s *ConnectivityService) CheckAll(ctx context.Context) []CheckResult {
	return []CheckResult{
		s.CheckLLM(ctx),
		s.CheckAds(ctx),
		s.CheckAnalytics(ctx),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CheckLLM sends a one-token completion to the configured OpenAI-compatible
// endpoint to validate the base URL, model name and API key together.
func (s *ConnectivityService) CheckLLM(ctx context.Context) CheckResult {
	result := CheckResult{Target: "llm"}
	if s.AI.BaseURL == "" || s.AI.APIKey == "" {
		result.Message = "ai.base_url or ai.api_key not configured"
		result.Hint = "set AI_BASE_URL / AI_API_KEY or fill the ai section of config.yaml"
		return result
	}

	payload, _ := json.Marshal(chatCompletionRequest{
		Model:     s.AI.Model,
		Messages:  []chatMessage{{Role: "user", Content: "ping"}},
		MaxTokens: 1,
	})

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.AI.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		result.Message = err.Error()
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.AI.APIKey)

	resp, err := s.client.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Message = err.Error()
		result.Hint = "check ai.base_url and outbound network access"
		return result
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		result.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		result.Hint = "ai.api_key rejected, rotate the key"
		return result
	}
	if resp.StatusCode != http.StatusOK {
		result.Message = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		return result
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		result.Message = "unparseable completion response"
		return result
	}
	if parsed.Error != nil {
		result.Message = parsed.Error.Message
		return result
	}

	result.OK = true
	result.Message = "ok"
	return result
}

func (s *ConnectivityService) CheckAds(ctx context.Context) CheckResult {
	return s.checkBearerEndpoint(ctx, "ads", s.Ads.BaseURL, s.Ads.APIKey,
		"set ads.base_url / ads.api_key in config.yaml")
}

func (s *ConnectivityService) CheckAnalytics(ctx context.Context) CheckResult {
	return s.checkBearerEndpoint(ctx, "analytics", s.Analytics.BaseURL, s.Analytics.APIKey,
		"set analytics.base_url / analytics.api_key in config.yaml")
}

func (s *ConnectivityService) checkBearerEndpoint(ctx context.Context, target, baseURL, apiKey, configHint string) CheckResult {
	result := CheckResult{Target: target}
	if baseURL == "" || apiKey == "" {
		result.Message = "not configured"
		result.Hint = configHint
		return result
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		result.Message = err.Error()
		return result
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := s.client.Do(req)
	result.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Message = err.Error()
		result.Hint = "check the base URL and outbound network access"
		return result
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		result.Hint = "credentials rejected, rotate the API key"
		return result
	}
	if resp.StatusCode >= 500 {
		result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return result
	}

	result.OK = true
	result.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
