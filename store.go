package graphmem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/soundprediction/graphmem/pkg/types"
)

// Backup file naming: graph_<timestamp>.json.bak, where the timestamp has
// microsecond granularity so lexicographic order is chronological order.
const (
	backupTimeLayout = "20060102T150405.000000"
	backupPrefix     = "graph_"
	backupSuffix     = ".json.bak"
)

// load reads the persisted graph file. Absent file -> empty graph.
func (s *Store) load() (*types.Graph, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewGraph(), nil
		}
		return nil, types.NewIOFailureError("load", s.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return types.NewGraph(), nil
	}
	return types.LoadGraph(data)
}

// persistLocked writes the graph atomically: marshal, write to a temporary
// file next to the target, then rename. Callers hold the lock.
func (s *Store) persistLocked() error {
	data, err := s.graph.Marshal()
	if err != nil {
		return types.NewIOFailureError("persist", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return types.NewIOFailureError("persist", s.path, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return types.NewIOFailureError("persist", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return types.NewIOFailureError("persist", s.path, err)
	}
	return nil
}

// backupLocked snapshots the current in-memory state into the backup
// directory and prunes history beyond maxBackups. Empty graphs with no
// persisted file yet are not worth a snapshot.
func (s *Store) backupLocked() (err error) {
	if len(s.graph.Entities) == 0 && len(s.graph.Relations) == 0 {
		if _, statErr := os.Stat(s.path); os.IsNotExist(statErr) {
			return nil
		}
	}
	_, err = s.writeBackupLocked()
	return err
}

// writeBackupLocked writes one timestamped snapshot and returns its path.
func (s *Store) writeBackupLocked() (string, error) {
	data, err := s.graph.Marshal()
	if err != nil {
		return "", types.NewIOFailureError("backup", s.backupDir, err)
	}
	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return "", types.NewIOFailureError("backup", s.backupDir, err)
	}
	name := backupPrefix + time.Now().UTC().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(s.backupDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", types.NewIOFailureError("backup", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", types.NewIOFailureError("backup", path, err)
	}
	s.pruneBackupsLocked()
	return path, nil
}

// pruneBackupsLocked drops the oldest snapshots beyond the retention bound.
func (s *Store) pruneBackupsLocked() {
	if s.maxBackups < 0 {
		return
	}
	names, err := s.backupNamesLocked()
	if err != nil || len(names) <= s.maxBackups {
		return
	}
	for _, old := range names[:len(names)-s.maxBackups] {
		if rmErr := os.Remove(filepath.Join(s.backupDir, old)); rmErr != nil {
			s.log.Warn("Failed to prune backup", "file", old, "error", rmErr)
		}
	}
}

// backupNamesLocked lists backup file names sorted oldest first.
func (s *Store) backupNamesLocked() ([]string, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, types.NewIOFailureError("backup", s.backupDir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupSuffix) {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names, nil
}

// BackupGraph writes an explicit snapshot on demand, independent of any
// mutation, and returns its descriptor.
func (s *Store) BackupGraph() (*types.BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.writeBackupLocked()
	if err != nil {
		return nil, err
	}
	info := &types.BackupInfo{
		File:          filepath.Base(path),
		Timestamp:     strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), backupPrefix), backupSuffix),
		EntityCount:   len(s.graph.Entities),
		RelationCount: len(s.graph.Relations),
	}
	s.log.Info("Backup created", "file", info.File, "entities", info.EntityCount, "relations", info.RelationCount)
	return info, nil
}

// ListBackups returns the retained backup history, oldest first.
func (s *Store) ListBackups() ([]types.BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.backupNamesLocked()
	if err != nil {
		return nil, err
	}
	infos := make([]types.BackupInfo, 0, len(names))
	for _, n := range names {
		infos = append(infos, types.BackupInfo{
			File:      n,
			Timestamp: strings.TrimSuffix(strings.TrimPrefix(n, backupPrefix), backupSuffix),
		})
	}
	return infos, nil
}

// RestoreGraph replaces the live graph from a backup. With an empty name it
// restores the most recent backup by timestamp; otherwise the named file
// must exist in the backup directory. The current state is snapshotted
// before the swap, and the swap happens only after the backup is fully
// parsed and validated.
func (s *Store) RestoreGraph(backupFile string) (*types.RestoreResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := backupFile
	if name == "" {
		names, err := s.backupNamesLocked()
		if err != nil {
			return nil, err
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("restore: %w: no backups exist", types.ErrNotFound)
		}
		name = names[len(names)-1]
	} else {
		if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, types.NewInvalidArgumentError("backup file must be a bare file name")
		}
	}

	path := filepath.Join(s.backupDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("restore: backup %q: %w", name, types.ErrNotFound)
		}
		return nil, types.NewIOFailureError("restore", path, err)
	}

	restored, err := types.LoadGraph(data)
	if err != nil {
		return nil, err
	}

	// Preserve the state being replaced so a restore is itself reversible.
	previous, err := s.writeBackupLocked()
	if err != nil {
		return nil, err
	}

	prior := s.graph
	s.graph = restored
	if err := s.persistLocked(); err != nil {
		s.graph = prior
		return nil, err
	}

	s.log.Info("Graph restored", "from", name, "entities", len(restored.Entities), "relations", len(restored.Relations))
	return &types.RestoreResult{
		RestoredFrom:      name,
		PreviousStateFile: filepath.Base(previous),
		EntityCount:       len(restored.Entities),
		RelationCount:     len(restored.Relations),
	}, nil
}

// ReadGraph returns a deep-copy snapshot of the full graph. Callers may
// mutate the copy freely.
func (s *Store) ReadGraph() *types.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Clone()
}
