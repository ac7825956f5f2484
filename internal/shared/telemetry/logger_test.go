package telemetry

import (
	"encoding/json"
	"io"
	"os"
	"testing"
)

func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = orig

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return data
}

func TestInfoMergesFieldsIntoEntry(t *testing.T) {
	out := captureStdout(t, func() {
		Info("resumes.retention.evicted", map[string]any{
			"user_id": "user-1",
			"name":    "a.pdf",
		})
	})

	var entry map[string]any
	if err := json.Unmarshal(out, &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "resumes.retention.evicted" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["user_id"] != "user-1" || entry["name"] != "a.pdf" {
		t.Fatalf("fields not merged: %v", entry)
	}
	if entry["ts"] == "" {
		t.Fatalf("missing timestamp: %v", entry)
	}
}
