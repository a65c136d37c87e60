package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"shortvid-pipeline/audio"
	"shortvid-pipeline/captions"
	"shortvid-pipeline/config"
	"shortvid-pipeline/diaglog"
	"shortvid-pipeline/footage"
	"shortvid-pipeline/llm"
	"shortvid-pipeline/metadata"
	"shortvid-pipeline/queries"
	"shortvid-pipeline/render"
	"shortvid-pipeline/script"
	"shortvid-pipeline/system"
	"shortvid-pipeline/timeline"
	"shortvid-pipeline/types"
	"shortvid-pipeline/upload"
)

func main() {
	// Load .env (local dev only)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		log.Fatal("Usage: shortvid-pipeline <topic>")
	}
	topic := os.Args[1]

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := system.CheckBinaries(); err != nil {
		log.Fatalf("Preflight failed: %v", err)
	}

	provider, err := config.ResolveProvider()
	if err != nil {
		log.Fatalf("Failed to resolve LLM provider: %v", err)
	}
	log.Printf("🧠 LLM provider: %s (%s)", provider.Name, provider.Model)

	pexelsKey := os.Getenv("PEXELS_KEY")
	if pexelsKey == "" {
		log.Fatal("PEXELS_KEY not set")
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	runID := uuid.NewString()[:8]
	runDir := filepath.Join(cfg.Paths.Output, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		log.Fatalf("Failed to create run dir: %v", err)
	}

	log.Printf("🎬 Video pipeline starting — Run ID: %s", runID)
	log.Printf("📁 Output dir: %s", runDir)

	ctx := context.Background()
	state := &types.PipelineState{
		RunID:     runID,
		Topic:     topic,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}

	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(runDir, "pipeline_state.json"), state)
		if state.Error != "" {
			log.Printf("❌ Pipeline failed: %s", state.Error)
			os.Exit(1)
		}
		log.Printf("✅ Pipeline complete! Video: %s", state.VideoFile)
	}()

	dlog := diaglog.New(cfg.Paths.Logs)
	chat := llm.New(provider)

	// ─────────────────────────────────────────────
	// STAGE 1: Script
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 1: Script ━━━")
	scriptText, err := script.New(chat, dlog).Generate(ctx, topic)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 1 Script: %v", err)
		return
	}
	state.Script = scriptText

	// ─────────────────────────────────────────────
	// STAGE 2: Narration audio
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 2: Narration ━━━")
	audioFile := filepath.Join(runDir, "audio_tts.wav")
	if err := audio.Synthesize(ctx, scriptText, audioFile); err != nil {
		state.Error = fmt.Sprintf("Stage 2 Narration: %v", err)
		return
	}
	state.AudioFile = audioFile

	// ─────────────────────────────────────────────
	// STAGE 3: Timed captions
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 3: Captions ━━━")
	capGen := captions.New(cfg.Captions.WhisperModel, cfg.Captions.MaxWordsPerCaption)
	timedCaptions, err := capGen.Generate(ctx, audioFile, filepath.Join(runDir, "captions"))
	if err != nil {
		state.Error = fmt.Sprintf("Stage 3 Captions: %v", err)
		return
	}
	state.Captions = timedCaptions
	saveJSON(filepath.Join(runDir, "captions.json"), timedCaptions)

	// ─────────────────────────────────────────────
	// STAGE 4: Search queries
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 4: Search queries ━━━")
	querySegments, err := queries.New(chat, dlog).Generate(ctx, scriptText, timedCaptions)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 4 Queries: %v", err)
		return
	}
	state.Queries = querySegments
	saveJSON(filepath.Join(runDir, "queries.json"), querySegments)

	// ─────────────────────────────────────────────
	// STAGE 5: Footage assignment
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 5: Footage ━━━")
	pexels := footage.NewClient(pexelsKey, dlog, cfg.Footage.PageSize, cfg.Footage.MinDurationSec, cfg.Footage.MaxDurationSec)
	scorer := footage.NewScorer(pexels, cfg.Footage.IdealDuration)
	used := footage.NewUsedSet()
	assignments, err := footage.AssignAll(ctx, scorer, querySegments, cfg.Video.Orientation, used)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 5 Footage: %v", err)
		return
	}

	assignments = timeline.Merge(assignments)
	state.Assignments = assignments
	saveJSON(filepath.Join(runDir, "assignments.json"), assignments)

	// ─────────────────────────────────────────────
	// STAGE 6: Render
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 6: Render ━━━")
	if err := system.Preflight(runDir); err != nil {
		state.Error = fmt.Sprintf("Stage 6 Preflight: %v", err)
		return
	}
	outputVideo := filepath.Join(runDir, "output.mp4")
	if err := render.New(cfg).Render(ctx, audioFile, timedCaptions, assignments, outputVideo); err != nil {
		state.Error = fmt.Sprintf("Stage 6 Render: %v", err)
		return
	}
	state.VideoFile = outputVideo

	if !cfg.Upload.Enabled {
		log.Println("[upload] Upload disabled in config — done")
		return
	}

	// ─────────────────────────────────────────────
	// STAGE 7: Metadata + Upload
	// ─────────────────────────────────────────────
	log.Println("\n━━━ STAGE 7: Publish ━━━")
	meta, err := metadata.New(chat, dlog).Generate(ctx, topic, scriptText)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Metadata: %v", err)
		return
	}
	state.Metadata = meta
	saveJSON(filepath.Join(runDir, "metadata.json"), meta)

	_, videoURL, err := upload.New(cfg).Run(ctx, outputVideo, meta)
	if err != nil {
		state.Error = fmt.Sprintf("Stage 7 Upload: %v", err)
		return
	}
	state.YouTubeURL = videoURL
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
