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
	"context"
	"net"
	"net/http"
	"time"

	"github.com/NVIDIA/pkg-analyzer/pkg/config"
	"github.com/NVIDIA/pkg-analyzer/pkg/defaults"
	"github.com/NVIDIA/pkg-analyzer/pkg/errors"
)

// Environment variables holding provider API keys.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// APIKeyEnv returns the environment variable that holds the key for p.
func APIKeyEnv(p config.Provider) string {
	if p == config.ProviderOpenAI {
		return EnvOpenAIAPIKey
	}
	return EnvGeminiAPIKey
}

// NewGenerator builds the Generator for cfg.Provider.
func NewGenerator(cfg config.AI, apiKey string, timeout time.Duration) (Generator, error) {
	if apiKey == "" {
		return nil, errors.NewWithContext(errors.ErrCodeUnauthorized, "API key is not set",
			map[string]any{"env": APIKeyEnv(cfg.Provider)})
	}
	client := newHTTPClient(timeout)

	switch cfg.Provider {
	case config.ProviderGemini, "":
		return &GeminiGenerator{
			APIKey:          apiKey,
			Model:           cfg.ModelName(),
			BaseURL:         cfg.BaseURL,
			Temperature:     cfg.Temperature,
			TopP:            cfg.TopP,
			MaxOutputTokens: cfg.MaxOutputTokens,
			Client:          client,
		}, nil
	case config.ProviderOpenAI:
		return &OpenAIGenerator{
			APIKey:      apiKey,
			Model:       cfg.ModelName(),
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxOutputTokens,
			Client:      client,
		}, nil
	default:
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest, "unsupported AI provider",
			map[string]any{"provider": cfg.Provider})
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaults.GenerateTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: defaults.HTTPConnectTimeout,
			}).DialContext,
			TLSHandshakeTimeout: defaults.HTTPTLSHandshakeTimeout,
			ForceAttemptHTTP2:   true,
		},
	}
}

// statusError maps an HTTP failure to a structured error.
func statusError(provider string, status int, message string) error {
	code := errors.ErrCodeInternal
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = errors.ErrCodeUnauthorized
	case status == http.StatusTooManyRequests || status >= 500:
		code = errors.ErrCodeUnavailable
	case status == http.StatusBadRequest || status == http.StatusNotFound:
		code = errors.ErrCodeInvalidRequest
	}
	return errors.NewWithContext(code, provider+" API error: "+message,
		map[string]any{"status": status})
}
