package system

import (
	"fmt"
	"log"
	"os/exec"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	minFreeDiskBytes  = 500 * 1024 * 1024 // ffmpeg needs working room
	warnFreeMemBytes  = 1024 * 1024 * 1024
	warnFreeDiskBytes = 2 * 1024 * 1024 * 1024
)

// requiredBinaries are the external tools the pipeline shells out to.
var requiredBinaries = []string{"ffmpeg", "ffprobe", "edge-tts", "whisper"}

// CheckBinaries verifies every external tool is on PATH before starting.
func CheckBinaries() error {
	for _, bin := range requiredBinaries {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("required binary %q not found in PATH", bin)
		}
	}
	return nil
}

// Preflight checks disk and memory headroom before the render. Tight but
// workable conditions only warn; no usable disk at all is fatal.
func Preflight(outputDir string) error {
	usage, err := disk.Usage(outputDir)
	if err != nil {
		log.Printf("[system] Warning: could not read disk usage for %s: %v", outputDir, err)
	} else {
		if usage.Free < minFreeDiskBytes {
			return fmt.Errorf("only %d MB free at %s; render needs more working space", usage.Free/1024/1024, outputDir)
		}
		if usage.Free < warnFreeDiskBytes {
			log.Printf("[system] Warning: low disk space at %s: %d MB free", outputDir, usage.Free/1024/1024)
		}
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("[system] Warning: could not read memory stats: %v", err)
	} else if vm.Available < warnFreeMemBytes {
		log.Printf("[system] Warning: low memory: %d MB available", vm.Available/1024/1024)
	}

	return nil
}
