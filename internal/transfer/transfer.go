package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/opugacodez/tokei/internal/model"
)

// ErrInvalidShape marks an import whose top-level JSON value is not an
// array of task-shaped records.
var ErrInvalidShape = errors.New("transfer: file does not contain a task list")

// Export renders the collection as the pretty-printed JSON array the
// original export format uses; Import accepts it back unchanged.
func Export(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	out, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("transfer: encode tasks: %w", err)
	}
	return out, nil
}

// Filename yields the dated export name, tasks-YYYY-MM-DD.json.
func Filename(now time.Time) string {
	return fmt.Sprintf("tasks-%s.json", now.Format(model.DateLayout))
}

// WriteFile exports the collection into dir and returns the written path.
func WriteFile(dir string, now time.Time, tasks []model.Task) (string, error) {
	data, err := Export(tasks)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("transfer: write %s: %w", path, err)
	}
	return path, nil
}

// Import parses a task list from r. Any top-level shape other than a JSON
// array is rejected with ErrInvalidShape.
func Import(r io.Reader) ([]model.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("transfer: read import: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	var probe []json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, ErrInvalidShape
	}

	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// ReadFile imports a task list from path.
func ReadFile(path string) ([]model.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("transfer: open %s: %w", path, err)
	}
	defer f.Close()
	return Import(f)
}
