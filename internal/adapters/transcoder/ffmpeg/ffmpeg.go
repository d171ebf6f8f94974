// Package ffmpeg runs ffprobe and ffmpeg against presigned object URLs.
//
// Sources are never downloaded; both binaries read the object over HTTP.
// Segments are written to a scratch directory under the configured work
// dir and uploaded in order once ffmpeg exits.
package ffmpeg

import (
	"beat-ingest/internal/config"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	sourceURLExpiry    = 2 * time.Hour
	segmentPattern     = "seg-%05d.ts"
	segmentContentType = "video/mp2t"
)

type Transcoder struct {
	storage port.ObjectStorage
	ffmpeg  string
	ffprobe string
	workDir string
	logger  *slog.Logger
}

// NewTranscoder creates a transcoder that reads sources from and writes segments to storage
func NewTranscoder(storage port.ObjectStorage, cfg config.HLSConfig, logger *slog.Logger) *Transcoder {
	return &Transcoder{
		storage: storage,
		ffmpeg:  binaryOr(cfg.FFmpegBinary, "ffmpeg"),
		ffprobe: binaryOr(cfg.FFprobeBinary, "ffprobe"),
		workDir: cfg.WorkDir,
		logger:  logger,
	}
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the container duration of sourceKey in seconds
func (t *Transcoder) Probe(ctx context.Context, sourceKey string) (float64, error) {
	source, err := t.storage.PresignGet(ctx, sourceKey, sourceURLExpiry)
	if err != nil {
		return 0, err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.ffprobe, "-v", "error", "-hide_banner", "-show_format", "-of", "json", "--", source.URL)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, runError("ffprobe", err, stderr.String())
	}

	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("%w: ffprobe parse: %w", domain.ErrInvalidMedia, err)
	}
	return parseDuration(result.Format.Duration), nil
}

// Segment encodes sourceKey at quality and uploads segment i to segmentKeys[i]
func (t *Transcoder) Segment(ctx context.Context, sourceKey string, quality domain.Quality, segmentSeconds float64, segmentKeys []string) error {
	source, err := t.storage.PresignGet(ctx, sourceKey, sourceURLExpiry)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(t.workDir, 0o755); err != nil {
		return fmt.Errorf("could not create work dir: %w", err)
	}
	dir, err := os.MkdirTemp(t.workDir, quality.Name+"-*")
	if err != nil {
		return fmt.Errorf("could not create segment dir: %w", err)
	}
	defer os.RemoveAll(dir)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.ffmpeg, segmentArgs(source.URL, quality, segmentSeconds, len(segmentKeys), filepath.Join(dir, segmentPattern))...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return runError("ffmpeg", err, stderr.String())
	}

	files, err := filepath.Glob(filepath.Join(dir, "seg-*.ts"))
	if err != nil {
		return fmt.Errorf("could not list segments: %w", err)
	}
	sort.Strings(files)
	if len(files) != len(segmentKeys) {
		return fmt.Errorf("%w: ffmpeg produced %d segments, expected %d", domain.ErrInvalidMedia, len(files), len(segmentKeys))
	}

	for i, file := range files {
		if err := t.upload(ctx, file, segmentKeys[i]); err != nil {
			return err
		}
	}

	t.logger.Debug("segments uploaded", "source", sourceKey, "quality", quality.Name, "count", len(files))
	return nil
}

func (t *Transcoder) upload(ctx context.Context, path, key string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open segment: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("could not stat segment: %w", err)
	}
	return t.storage.PutObject(ctx, key, f, info.Size(), segmentContentType)
}

// segmentArgs caps the output at segmentCount full segments; encoder priming and frame
// padding would otherwise spill a few milliseconds into an extra segment.
func segmentArgs(sourceURL string, quality domain.Quality, segmentSeconds float64, segmentCount int, outputPattern string) []string {
	return []string{
		"-v", "error", "-hide_banner", "-y",
		"-i", sourceURL,
		"-vn",
		"-c:a", encoderFor(quality.Codec),
		"-b:a", strconv.FormatInt(quality.BitrateBps, 10),
		"-ar", strconv.Itoa(quality.SampleRateHz),
		"-ac", strconv.Itoa(quality.Channels),
		"-t", strconv.FormatFloat(float64(segmentCount)*segmentSeconds, 'f', 3, 64),
		"-f", "segment",
		"-segment_time", strconv.FormatFloat(segmentSeconds, 'f', 3, 64),
		"-segment_format", "mpegts",
		"-reset_timestamps", "1",
		outputPattern,
	}
}

// encoderFor maps an RFC 6381 codec string to an ffmpeg encoder
func encoderFor(codec string) string {
	switch c := strings.ToLower(strings.TrimSpace(codec)); {
	case c == "mp3", c == "mp4a.40.34", c == "mp4a.6b":
		return "libmp3lame"
	case c == "ac-3":
		return "ac3"
	default:
		return "aac"
	}
}

func parseDuration(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

func runError(binary string, err error, stderr string) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: %s exited with %d: %s", domain.ErrInvalidMedia, binary, exitErr.ExitCode(), strings.TrimSpace(stderr))
	}
	return fmt.Errorf("could not run %s: %w", binary, err)
}

func binaryOr(binary, fallback string) string {
	if b := strings.TrimSpace(binary); b != "" {
		return b
	}
	return fallback
}
