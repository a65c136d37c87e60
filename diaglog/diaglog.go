package diaglog

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Response type tags for raw external-service captures.
const (
	TypeGPT    = "gpt"
	TypePexels = "pexels"
)

// Logger persists every external response verbatim for later debugging.
// Entries are append-only: one timestamped JSON file per response, keyed by
// a type tag. Failures here never affect the pipeline.
type Logger struct {
	dir string
}

// New creates a Logger writing under dir. A nil Logger is valid and drops
// everything.
func New(dir string) *Logger {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("[diaglog] Warning: could not create %s: %v", dir, err)
		return nil
	}
	return &Logger{dir: dir}
}

type entry struct {
	ResponseType string `json:"response_type"`
	Query        string `json:"query"`
	Response     string `json:"response"`
	LoggedAt     string `json:"logged_at"`
}

// Record saves one raw response under its type tag.
func (l *Logger) Record(typeTag, key, raw string) {
	if l == nil {
		return
	}
	e := entry{
		ResponseType: typeTag,
		Query:        key,
		Response:     raw,
		LoggedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		log.Printf("[diaglog] Warning: marshal entry: %v", err)
		return
	}
	name := typeTag + "_" + time.Now().UTC().Format("20060102_150405.000000000") + ".json"
	if err := os.WriteFile(filepath.Join(l.dir, name), data, 0644); err != nil {
		log.Printf("[diaglog] Warning: write entry: %v", err)
	}
}
