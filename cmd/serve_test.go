package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfigPayload(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		check   func(t *testing.T, payload map[string]any)
	}{
		{
			name:    "valid payload",
			content: `{"default_calendar_id": "room-a@example.com", "default_max_results": 50}`,
			check: func(t *testing.T, payload map[string]any) {
				if payload["default_calendar_id"] != "room-a@example.com" {
					t.Errorf("default_calendar_id = %v, want room-a@example.com", payload["default_calendar_id"])
				}
			},
		},
		{
			name:    "empty object",
			content: `{}`,
			check: func(t *testing.T, payload map[string]any) {
				if len(payload) != 0 {
					t.Errorf("payload = %v, want empty", payload)
				}
			},
		},
		{
			name:    "malformed JSON",
			content: `{"default_calendar_id": `,
			wantErr: true,
		},
		{
			name:    "JSON array instead of object",
			content: `["a", "b"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			payload, err := readConfigPayload(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("readConfigPayload() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("readConfigPayload() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, payload)
			}
		})
	}
}

func TestReadConfigPayloadMissingFile(t *testing.T) {
	_, err := readConfigPayload(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatal("readConfigPayload() succeeded for missing file, want error")
	}
}
