package config

import (
	"fmt"
	"os"
)

// Provider names the chat-completions backend for one run. It is resolved
// once at process start and passed by reference into every stage that calls
// the model; nothing reads the environment after startup.
type Provider struct {
	Name    string
	Model   string
	APIKey  string
	BaseURL string
}

const (
	groqBaseURL   = "https://api.groq.com/openai/v1"
	openaiBaseURL = "https://api.openai.com/v1"
)

// ResolveProvider picks Groq when a plausible GROQ_API_KEY is present,
// otherwise OpenAI via OPENAI_KEY. Errors when neither key is set.
func ResolveProvider() (*Provider, error) {
	if key := os.Getenv("GROQ_API_KEY"); len(key) > 30 {
		return &Provider{
			Name:    "groq",
			Model:   "llama-3.3-70b-versatile",
			APIKey:  key,
			BaseURL: groqBaseURL,
		}, nil
	}
	if key := os.Getenv("OPENAI_KEY"); key != "" {
		return &Provider{
			Name:    "openai",
			Model:   "gpt-4o",
			APIKey:  key,
			BaseURL: openaiBaseURL,
		}, nil
	}
	return nil, fmt.Errorf("no LLM provider configured: set GROQ_API_KEY or OPENAI_KEY")
}
