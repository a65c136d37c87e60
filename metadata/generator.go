package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"shortvid-pipeline/diaglog"
	"shortvid-pipeline/llm"
	"shortvid-pipeline/types"
)

const systemPrompt = `You are an expert YouTube SEO strategist for a shorts channel.
Generate compelling metadata for a short facts video.

You MUST respond with ONLY valid JSON — no markdown, no explanation, no preamble.

The JSON must have exactly these fields:
- "title": string (max 70 chars, curiosity hook, honest)
- "description": string (~100 words, SEO-rich, ends with a question to drive comments)
- "tags": array of 20 strings (mix of broad and specific tags)`

// Generator creates upload metadata from the topic and finished script
type Generator struct {
	client *llm.Client
	dlog   *diaglog.Logger
}

// New creates a metadata Generator
func New(client *llm.Client, dlog *diaglog.Logger) *Generator {
	return &Generator{client: client, dlog: dlog}
}

type metadataJSON struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// Generate produces title, description and tags for the video.
func (g *Generator) Generate(ctx context.Context, topic, script string) (*types.VideoMetadata, error) {
	log.Println("[metadata] Generating upload metadata...")

	userPrompt := fmt.Sprintf("Topic: %s\n\nNarration script:\n%s", topic, script)
	content, err := g.client.Chat(ctx, systemPrompt, userPrompt, 0.8)
	if err != nil {
		return nil, err
	}
	g.dlog.Record(diaglog.TypeGPT, "metadata:"+topic, content)

	content = strings.TrimSpace(content)
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start != -1 && end > start {
		content = content[start : end+1]
	}

	var parsed metadataJSON
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}
	if parsed.Title == "" {
		return nil, fmt.Errorf("metadata response missing title")
	}

	log.Printf("[metadata] ✅ %q, %d tags", parsed.Title, len(parsed.Tags))
	return &types.VideoMetadata{
		Title:       parsed.Title,
		Description: parsed.Description,
		Tags:        parsed.Tags,
	}, nil
}
