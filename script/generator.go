package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"shortvid-pipeline/diaglog"
	"shortvid-pipeline/llm"
)

const systemPrompt = `You are a seasoned content writer for a YouTube Shorts channel, specializing in facts videos.
Each script should be under 50 seconds (under 140 words), and extremely engaging.

For example, if asked for:
Weird facts
You'd write something like:
{"script": "Weird facts you don't know: ..."}

Now generate the best short script for the user's topic.
Only respond with a pure JSON object like:
{"script": "..." }`

// Generator produces the narration script for a topic
type Generator struct {
	client *llm.Client
	dlog   *diaglog.Logger
}

// New creates a script Generator
func New(client *llm.Client, dlog *diaglog.Logger) *Generator {
	return &Generator{client: client, dlog: dlog}
}

// Generate asks the model for a narration script and extracts the text.
func (g *Generator) Generate(ctx context.Context, topic string) (string, error) {
	log.Printf("[script] Generating script for topic %q...", topic)

	content, err := g.client.Chat(ctx, systemPrompt, topic, 0.7)
	if err != nil {
		return "", err
	}
	g.dlog.Record(diaglog.TypeGPT, topic, content)

	text, err := extractScript(content)
	if err != nil {
		return "", err
	}

	log.Printf("[script] ✅ Script ready: %d words", len(strings.Fields(text)))
	return text, nil
}

type scriptJSON struct {
	Script string `json:"script"`
}

// extractScript pulls the script string out of the model's JSON object,
// tolerating code fences and surrounding prose.
func extractScript(content string) (string, error) {
	content = stripFences(content)

	var parsed scriptJSON
	if err := json.Unmarshal([]byte(content), &parsed); err == nil && parsed.Script != "" {
		return parsed.Script, nil
	}

	// Fall back to the outermost object
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return "", fmt.Errorf("no JSON object in script response")
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return "", fmt.Errorf("parse script JSON: %w", err)
	}
	if parsed.Script == "" {
		return "", fmt.Errorf("script response missing %q field", "script")
	}
	return parsed.Script, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
