// Package ocr extracts text from screenshots with the tesseract binary.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Config carries the tesseract invocation parameters.
type Config struct {
	Command  string
	Language string
	PSM      int // page segmentation mode; 6 treats the screenshot as one text block
	OEM      int // engine mode; 3 lets tesseract pick
}

// Client shells out to tesseract once per image.
type Client struct {
	cfg Config
}

// New builds a Client, falling back to the standard tesseract defaults for
// zero-valued fields.
func New(cfg Config) *Client {
	if cfg.Command == "" {
		cfg.Command = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PSM == 0 {
		cfg.PSM = 6
	}
	if cfg.OEM == 0 {
		cfg.OEM = 3
	}
	return &Client{cfg: cfg}
}

// ExtractText runs OCR on one image and returns the trimmed plain text.
// Screenshots that produce no text at all return an empty string, not an
// error; the pipeline treats that as its own fast path.
func (c *Client) ExtractText(ctx context.Context, imagePath string) (string, error) {
	args := []string{
		imagePath, "stdout",
		"-l", c.cfg.Language,
		"--psm", strconv.Itoa(c.cfg.PSM),
		"--oem", strconv.Itoa(c.cfg.OEM),
	}

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract %s: %w: %s", imagePath, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
