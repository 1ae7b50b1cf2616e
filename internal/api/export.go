package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Export wraps the download endpoint that produces the candidate table.
type Export struct {
	c *Client
}

// NewExport builds the export service.
func NewExport(c *Client) *Export {
	return &Export{c: c}
}

// DownloadApplications fetches the exported candidate table and writes it to
// destPath, returning the final path.
func (e *Export) DownloadApplications(ctx context.Context, destPath string) (string, error) {
	raw, err := e.c.Get(ctx, "/export/applications")
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("api: ensure export dir: %w", err)
	}
	if err := os.WriteFile(destPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("api: write export: %w", err)
	}
	return destPath, nil
}
