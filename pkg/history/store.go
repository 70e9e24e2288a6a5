// Package history archives graded calls and roleplays as JSON files and keeps
// a summary index used for listings and coaching context.
package history

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/closepro/closepro/pkg/clusters"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	recordSuffix  = ".analysis.json"
	indexFileName = ".index.json"
)

// Store reads and writes records under one directory.
type Store struct {
	dir       string
	indexPath string
	logger    *slog.Logger
}

// NewStore creates a store rooted at dir. A nil logger discards output.
func NewStore(dir string, logger *slog.Logger) (store *Store, err error) {
	if dir == "" {
		err = errors.New("history directory is required")
		return store, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store = &Store{
		dir:       dir,
		indexPath: filepath.Join(dir, indexFileName),
		logger:    logger,
	}
	return store, err
}

// Dir is the archive directory.
func (s *Store) Dir() (dir string) {
	dir = s.dir
	return dir
}

// Save writes rec, assigning an id and timestamp when missing, and adds it to
// the index.
func (s *Store) Save(rec *Record) (path string, err error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, parseErr := uuid.Parse(rec.ID); parseErr != nil {
		err = errors.Wrapf(parseErr, "invalid record id %q", rec.ID)
		return path, err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Version == "" {
		rec.Version = IndexVersion
	}

	err = os.MkdirAll(s.dir, 0o755)
	if err != nil {
		err = errors.Wrapf(err, "failed to create history directory: %s", s.dir)
		return path, err
	}

	path = s.recordPath(rec.ID)

	var data []byte
	data, err = json.MarshalIndent(rec, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal record")
		return path, err
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write record: %s", path)
		return path, err
	}

	var index Index
	index, err = s.LoadIndex()
	if err != nil {
		return path, err
	}

	entry := summarize(*rec, path)
	replaced := false
	for i := range index.Records {
		if index.Records[i].ID == rec.ID {
			index.Records[i] = entry
			replaced = true
		}
	}
	if !replaced {
		index.Records = append(index.Records, entry)
	}

	err = s.writeIndex(index)
	if err != nil {
		return path, err
	}

	s.logger.Debug("saved record", "id", rec.ID, "path", path)
	return path, err
}

// Load reads one record by id.
func (s *Store) Load(id string) (rec Record, err error) {
	if _, parseErr := uuid.Parse(id); parseErr != nil {
		err = errors.Wrapf(parseErr, "invalid record id %q", id)
		return rec, err
	}

	rec, err = loadRecord(s.recordPath(id))
	return rec, err
}

// Reindex scans the directory for records and rewrites the index. Records
// that fail to parse are skipped and logged.
func (s *Store) Reindex(ctx context.Context) (count int, err error) {
	records := []IndexedRecord{}

	walkErr := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, walkErr error) (walkFuncErr error) {
		if walkErr != nil {
			walkFuncErr = walkErr
			return walkFuncErr
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			walkFuncErr = ctxErr
			return walkFuncErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), recordSuffix) {
			return walkFuncErr
		}

		rec, loadErr := loadRecord(path)
		if loadErr != nil {
			s.logger.Warn("skipping unreadable record", "path", path, "error", loadErr)
			return walkFuncErr
		}
		if _, idErr := uuid.Parse(rec.ID); idErr != nil {
			s.logger.Warn("skipping record with invalid id", "path", path, "id", rec.ID)
			return walkFuncErr
		}

		records = append(records, summarize(rec, path))
		count++
		return walkFuncErr
	})
	if walkErr != nil {
		err = errors.Wrapf(walkErr, "failed to walk history directory: %s", s.dir)
		return count, err
	}

	err = s.writeIndex(Index{Records: records})
	if err != nil {
		return count, err
	}

	return count, err
}

// LoadIndex reads the index. A missing index is empty, not an error.
func (s *Store) LoadIndex() (index Index, err error) {
	var data []byte
	data, err = os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			index = Index{
				Records:   []IndexedRecord{},
				UpdatedAt: time.Now().UTC(),
				Version:   IndexVersion,
			}
			err = nil
			return index, err
		}
		err = errors.Wrapf(err, "failed to read index file: %s", s.indexPath)
		return index, err
	}

	err = json.Unmarshal(data, &index)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse index JSON: %s", s.indexPath)
		return index, err
	}

	return index, err
}

// Recent returns up to n index entries, newest first. n <= 0 returns all.
func (s *Store) Recent(n int) (records []IndexedRecord, err error) {
	var index Index
	index, err = s.LoadIndex()
	if err != nil {
		return records, err
	}

	records = index.Records
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if n > 0 && len(records) > n {
		records = records[:n]
	}
	return records, err
}

func (s *Store) recordPath(id string) (path string) {
	path = filepath.Join(s.dir, id+recordSuffix)
	return path
}

func (s *Store) writeIndex(index Index) (err error) {
	index.UpdatedAt = time.Now().UTC()
	index.Version = IndexVersion
	sort.SliceStable(index.Records, func(i, j int) bool {
		return index.Records[i].CreatedAt.Before(index.Records[j].CreatedAt)
	})

	var data []byte
	data, err = json.MarshalIndent(index, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal index")
		return err
	}

	err = os.MkdirAll(s.dir, 0o755)
	if err != nil {
		err = errors.Wrapf(err, "failed to create history directory: %s", s.dir)
		return err
	}

	err = os.WriteFile(s.indexPath, data, 0o600)
	if err != nil {
		err = errors.Wrap(err, "failed to write index file")
		return err
	}

	return err
}

func loadRecord(path string) (rec Record, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read record file: %s", path)
		return rec, err
	}

	err = json.Unmarshal(data, &rec)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse record JSON: %s", path)
		return rec, err
	}

	return rec, err
}

func summarize(rec Record, path string) (entry IndexedRecord) {
	a := rec.Analysis

	entry = IndexedRecord{
		ID:              rec.ID,
		Kind:            rec.Kind,
		ProspectID:      rec.ProspectID,
		ProspectName:    rec.ProspectName,
		CreatedAt:       rec.CreatedAt,
		OverallScore:    a.OverallScore,
		OverallBand:     a.OverallBand,
		CapsApplied:     []string{},
		Recommendations: []string{},
		Path:            path,
	}

	if a.Difficulty != nil {
		entry.Tier = string(a.Difficulty.Tier)
	}
	if a.Clusters != nil {
		entry.WeakestCluster = weakest(*a.Clusters)
	}

	for _, ps := range a.PhaseScores {
		for _, c := range ps.CapsApplied {
			entry.CapsApplied = append(entry.CapsApplied, c.ID)
		}
	}
	sort.Strings(entry.CapsApplied)

	for _, r := range a.Recommendations {
		entry.Recommendations = append(entry.Recommendations, r.Action)
	}

	return entry
}

// weakest is the lowest-scoring cluster that was scored at all.
func weakest(result clusters.Result) (id clusters.ID) {
	low := -1
	for _, c := range result.Clusters {
		if c.Score <= 0 {
			continue
		}
		if low < 0 || c.Score < low {
			low = c.Score
			id = c.ClusterID
		}
	}
	return id
}
