package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/noemalabs/noema/internal/logger"
)

const snapshotPrefix = "snapshots/"

// BackupMind uploads a copy of the mind file under a timestamped key.
// SQLite's WAL mode keeps the main file consistent for readers, so a plain
// file read is a usable snapshot.
func (c *Client) BackupMind(ctx context.Context, mindPath string) (string, error) {
	data, err := os.ReadFile(mindPath)
	if err != nil {
		return "", fmt.Errorf("read mind file: %w", err)
	}

	name := snapshotPrefix + time.Now().UTC().Format("2006-01-02T15-04-05") + ".db"
	if err := c.Upload(ctx, name, data, "application/vnd.sqlite3"); err != nil {
		return "", err
	}

	logger.Info("mind snapshot uploaded", "name", name, "bytes", len(data))
	return name, nil
}

// ListSnapshots returns uploaded mind snapshots, as stored.
func (c *Client) ListSnapshots(ctx context.Context) ([]FileInfo, error) {
	return c.List(ctx, snapshotPrefix)
}

// RestoreMind downloads a snapshot to the given path. Refuses to overwrite
// an existing file.
func (c *Client) RestoreMind(ctx context.Context, snapshotName, destPath string) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", destPath)
	}

	data, err := c.Download(ctx, snapshotName)
	if err != nil {
		return err
	}

	return os.WriteFile(destPath, data, 0600)
}
