package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"

	"github.com/watchfire-io/trajview/internal/models"
)

// maxPredictionLine bounds one JSONL line; model patches can be large.
const maxPredictionLine = 64 << 20

// LoadPredictions reads the line-delimited predictions file keyed by task
// ID. A missing file returns an empty map and ErrNoPredictions; viewing
// never depends on it.
func LoadPredictions(fs afero.Fs, path string) (map[string]models.Prediction, error) {
	preds := make(map[string]models.Prediction)
	if path == "" {
		return preds, ErrNoPredictions
	}

	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return preds, fmt.Errorf("%s: %w", path, ErrNoPredictions)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxPredictionLine)
	line := 0
	for scanner.Scan() {
		line++
		b := bytes.TrimSpace(scanner.Bytes())
		if len(b) == 0 {
			continue
		}
		var p models.Prediction
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, &DataFormatError{Path: path, Line: line, Err: err}
		}
		if p.InstanceID == "" {
			return nil, &DataFormatError{Path: path, Line: line, Err: fmt.Errorf("missing instance_id")}
		}
		preds[p.InstanceID] = p
	}
	if err := scanner.Err(); err != nil {
		return nil, &DataFormatError{Path: path, Line: line + 1, Err: err}
	}
	return preds, nil
}
