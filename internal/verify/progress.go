package verify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/placelink-cli/internal/model"
)

// NewProgress creates a fresh ProgressState for a run over the given
// valid-input count.
func NewProgress(total, skipped int) *model.ProgressState {
	now := time.Now().UTC()
	return &model.ProgressState{
		RunID:              uuid.New().String(),
		Total:              total,
		Skipped:            skipped,
		LastProcessedIndex: -1,
		StartedAt:          now,
		UpdatedAt:          now,
	}
}

// LoadProgress reads a saved ProgressState.
func LoadProgress(path string) (*model.ProgressState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "progress: read %s", path)
	}
	var st model.ProgressState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, eris.Wrapf(err, "progress: decode %s", path)
	}
	return &st, nil
}

// SaveProgress persists the ProgressState atomically.
func SaveProgress(path string, st *model.ProgressState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return eris.Wrap(err, "progress: marshal")
	}
	return writeAtomic(path, data)
}

// LoadOutput reads a previously written verified-record file. A missing
// file is an empty output, so a resume after a crash before the first
// checkpoint starts cleanly.
func LoadOutput(path string) ([]model.VerifiedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "output: read %s", path)
	}
	var recs []model.VerifiedRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, eris.Wrapf(err, "output: decode %s", path)
	}
	return recs, nil
}

// SaveOutput rewrites the verified-record file atomically.
func SaveOutput(path string, recs []model.VerifiedRecord) error {
	if recs == nil {
		recs = []model.VerifiedRecord{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return eris.Wrap(err, "output: marshal")
	}
	return writeAtomic(path, data)
}

// loadCheckpoint restores a saved run. The output file is flushed before the
// progress file at every checkpoint, so after a crash the output may be
// ahead of the progress state but never behind; truncating it back to
// Processed restores the invariant and the run continues from
// LastProcessedIndex+1.
func loadCheckpoint(outputPath, progressPath string) (*model.ProgressState, []model.VerifiedRecord, error) {
	st, err := LoadProgress(progressPath)
	if err != nil {
		return nil, nil, err
	}
	out, err := LoadOutput(outputPath)
	if err != nil {
		return nil, nil, err
	}

	if len(out) > st.Processed {
		zap.L().Warn("output file ahead of progress state, truncating",
			zap.Int("output_records", len(out)),
			zap.Int("processed", st.Processed))
		out = out[:st.Processed]
	}
	if len(out) < st.Processed {
		return nil, nil, eris.Errorf(
			"checkpoint mismatch: progress says %d processed but output holds %d records",
			st.Processed, len(out))
	}
	return st, out, nil
}

// writeAtomic writes via a temp file in the target directory followed by a
// rename, so a crash mid-write never leaves a torn file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "write %s: create temp", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrapf(err, "write %s: sync", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "write %s: close temp", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "write %s: rename", path)
	}
	return nil
}
