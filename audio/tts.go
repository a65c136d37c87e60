package audio

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"
)

const ttsVoice = "en-AU-WilliamNeural"

// Synthesize generates the narration audio for the whole script in one
// edge-tts call, retrying up to 3 times.
func Synthesize(ctx context.Context, script, outFile string) error {
	log.Println("[audio] Generating narration via edge-tts...")

	if _, err := exec.LookPath("edge-tts"); err != nil {
		return fmt.Errorf("edge-tts not found: install with pip install edge-tts")
	}

	var err error
	for attempt := 1; attempt <= 3; attempt++ {
		cmd := exec.CommandContext(ctx,
			"edge-tts",
			"--voice", ttsVoice,
			"--text", script,
			"--write-media", outFile,
		)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err = cmd.Run(); err == nil {
			log.Printf("[audio] ✅ Narration saved: %s", outFile)
			return nil
		}
		log.Printf("[audio] TTS attempt %d failed: %v — retrying...", attempt, err)
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	return fmt.Errorf("edge-tts failed after 3 attempts: %w", err)
}

// Duration uses ffprobe to measure an audio file's length in seconds.
func Duration(audioFile string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioFile,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}
