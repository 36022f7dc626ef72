// Package audit keeps a copy of every snapshot document accepted by the data
// endpoint, one JSON file per upload.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
	clock    func() time.Time
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
		clock:    time.Now,
	}
}

// SaveJSON writes data as indented JSON to a new file named
// "<utc timestamp>-<uuid>.json" and returns the file name. Names sort by
// upload time.
func (a *Auditor) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.json", a.clock().UTC().Format("20060102T150405.000Z"), uuid.NewString())
	path := filepath.Join(a.AuditDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	log.Printf("[AUDIT] Saved %s", path)
	return filename, nil
}
