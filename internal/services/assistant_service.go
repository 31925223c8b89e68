// internal/services/assistant_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/medlocator/internal/config"
)

const assistantSystemPrompt = `You are the MedLocator health assistant, helping people who use a nearby medicine finder.

You can:
- explain what a medicine is for, usual dosages, side effects, interactions and common alternatives
- suggest which kind of over-the-counter medicine is typically used for a symptom
- give general diet, skincare, haircare and supplement advice
- give basic information about medical procedures and recovery

Style:
- be concise, use bullet points, stay under 150 words unless asked for detail
- write medicine names in **bold**, for example **Paracetamol**
- mention brand names common in India where relevant
- highlight important warnings in bold

Always:
- recommend seeing a doctor for serious or persistent symptoms
- never diagnose, only inform`

const (
	assistantTemperature = 0.7
	assistantMaxTokens   = 500

	replyUpstreamError = "I'm having trouble connecting to my knowledge base. Please try again in a moment."
	replyTimeout       = "The request timed out. Please try again."
	replyEmpty         = "I'm sorry, I couldn't process that. Please try again."
)

// ChatReply mirrors what the client shows. Success=false carries a friendly
// message in Response and the cause in Error.
type ChatReply struct {
	Response string `json:"response"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// AssistantService proxies medicine questions to Gemini so the API key
// never leaves the server.
type AssistantService struct {
	apiKey  string
	model   string
	baseURL string
	hc      *http.Client
	log     *logrus.Entry
}

func NewAssistantService(cfg config.AssistantConfig, httpClient *http.Client) *AssistantService {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &AssistantService{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		hc:      httpClient,
		log:     logrus.WithField("component", "assistant"),
	}
}

func (s *AssistantService) Configured() bool {
	return s.apiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Chat answers message. Configuration and input problems are returned as
// errors; upstream failures are folded into an unsuccessful reply.
func (s *AssistantService) Chat(ctx context.Context, message string) (*ChatReply, error) {
	if !s.Configured() {
		return nil, ErrAssistantDisabled
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", ErrInvalidInput)
	}

	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{
		Text: assistantSystemPrompt + "\n\nUser: " + message + "\n\nAssistant:",
	}}}}
	body.GenerationConfig.Temperature = assistantTemperature
	body.GenerationConfig.MaxOutputTokens = assistantMaxTokens

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("assistant marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assistant new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.hc.Do(req)
	if err != nil {
		if isTimeout(err) {
			s.log.WithField("latency", time.Since(start)).Warn("Gemini request timed out")
			return &ChatReply{Response: replyTimeout, Error: "Request timeout"}, nil
		}
		s.log.WithError(err).Error("Gemini request failed")
		return &ChatReply{Response: replyUpstreamError, Error: "upstream request failed"}, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		s.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(respBody),
		}).Error("Gemini API error")
		return &ChatReply{Response: replyUpstreamError, Error: fmt.Sprintf("API returned %d", resp.StatusCode)}, nil
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		s.log.WithError(err).Error("Undecodable Gemini response")
		return &ChatReply{Response: replyUpstreamError, Error: "undecodable upstream response"}, nil
	}

	text := replyEmpty
	if len(parsed.Candidates) > 0 && len(parsed.Candidates[0].Content.Parts) > 0 && parsed.Candidates[0].Content.Parts[0].Text != "" {
		text = parsed.Candidates[0].Content.Parts[0].Text
	}
	return &ChatReply{Response: text, Success: true}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
