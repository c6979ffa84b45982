package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/noemalabs/noema/internal/llm"
	"github.com/noemalabs/noema/internal/storage"
)

type StorageListArgs struct {
	Prefix string `json:"prefix,omitempty"`
}

type StorageGetArgs struct {
	Name string `json:"name"`
}

type StoragePutArgs struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// RegisterStorageTools is a no-op when storage is not configured; the
// tools simply don't exist rather than failing at call time.
func RegisterStorageTools(registry *Registry, client *storage.Client, mindPath string) {
	if client == nil {
		return
	}

	listTool := llm.Tool{
		Name:        "storage_list",
		Description: "List files in the object bucket, optionally under a prefix.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prefix": map[string]any{
					"type":        "string",
					"description": "Path prefix to list under (e.g., 'notes/')",
				},
			},
		},
	}

	registry.Register(listTool, func(ctx context.Context, args string) (string, error) {
		var params StorageListArgs
		if args != "" {
			if err := unmarshalArgs(args, &params); err != nil {
				return "", err
			}
		}

		files, err := client.List(ctx, params.Prefix)
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			return "No files found.", nil
		}

		var sb strings.Builder
		for _, f := range files {
			if f.IsDir {
				fmt.Fprintf(&sb, "%s/\n", strings.TrimSuffix(f.Name, "/"))
				continue
			}
			fmt.Fprintf(&sb, "%s (%d bytes, %s)\n", f.Name, f.Size, f.ModTime)
		}
		return sb.String(), nil
	})

	getTool := llm.Tool{
		Name:        "storage_get",
		Description: "Read a text file from the object bucket.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Object name to read",
				},
			},
			"required": []string{"name"},
		},
	}

	registry.Register(getTool, func(ctx context.Context, args string) (string, error) {
		var params StorageGetArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		data, err := client.Download(ctx, params.Name)
		if err != nil {
			return "", err
		}
		return string(data), nil
	})

	putTool := llm.Tool{
		Name:        "storage_put",
		Description: "Write a text file to the object bucket.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Object name to write",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "File contents",
				},
			},
			"required": []string{"name", "content"},
		},
	}

	registry.Register(putTool, func(ctx context.Context, args string) (string, error) {
		var params StoragePutArgs
		if err := unmarshalArgs(args, &params); err != nil {
			return "", err
		}

		if err := client.Upload(ctx, params.Name, []byte(params.Content), "text/plain"); err != nil {
			return "", err
		}
		return fmt.Sprintf("Wrote %s (%d bytes).", params.Name, len(params.Content)), nil
	})

	backupTool := llm.Tool{
		Name:        "backup_mind",
		Description: "Upload a timestamped snapshot of the mind file to the object bucket.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}

	registry.Register(backupTool, func(ctx context.Context, args string) (string, error) {
		name, err := client.BackupMind(ctx, mindPath)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Snapshot uploaded as %s.", name), nil
	})
}
