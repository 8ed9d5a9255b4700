// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package aireport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

// DefaultGeminiBaseURL is the Generative Language API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// GeminiGenerator calls the Gemini generateContent REST method.
type GeminiGenerator struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	Client          *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.Model
	if model == "" {
		model = defaults.GeminiModel
	}
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultGeminiBaseURL
	}
	client := g.Client
	if client == nil {
		client = newHTTPClient(defaults.GenerateTimeout)
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     g.Temperature,
			TopP:            g.TopP,
			MaxOutputTokens: g.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		base, url.PathEscape(model), url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	slog.Info("requesting analysis", "provider", "gemini", "model", model, "prompt_bytes", len(prompt))
	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		// The URL carries the key; report the host only.
		return "", errors.WrapWithContext(errors.ErrCodeUnavailable, "failed to send request", unwrapURLError(err),
			map[string]any{"host": base})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", statusError("Gemini", resp.StatusCode, msg)
	}

	var out geminiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.PromptFeedback.BlockReason != "" {
		return "", errors.NewWithContext(errors.ErrCodeInvalidRequest, "prompt was blocked",
			map[string]any{"reason": out.PromptFeedback.BlockReason})
	}
	if len(out.Candidates) == 0 {
		return "", errors.New(errors.ErrCodeInternal, "no candidates in Gemini response")
	}

	var b strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", errors.NewWithContext(errors.ErrCodeInternal, "empty Gemini response",
			map[string]any{"finish_reason": out.Candidates[0].FinishReason})
	}

	slog.Debug("analysis received", "provider", "gemini", "bytes", len(text), "duration", time.Since(start).String())
	return text, nil
}

// unwrapURLError drops the *url.Error wrapper, whose message includes the
// request URL.
func unwrapURLError(err error) error {
	if ue, ok := err.(*url.Error); ok {
		return ue.Err
	}
	return err
}
