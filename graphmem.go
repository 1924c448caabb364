package graphmem

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/soundprediction/graphmem/pkg/logger"
	"github.com/soundprediction/graphmem/pkg/types"
)

// DefaultMaxBackups is how many backup snapshots are retained before the
// oldest are pruned.
const DefaultMaxBackups = 10

// Options configures a Store. Multiple Stores with independent Options
// coexist cleanly; there is no shared global state.
type Options struct {
	// Path is the graph file location. Required; resolve it with
	// config.ResolveGraphPath before construction.
	Path string

	// BackupDir overrides the backup directory. Defaults to a "backups"
	// directory next to the graph file.
	BackupDir string

	// MaxBackups bounds the backup history. Zero means DefaultMaxBackups;
	// negative disables pruning.
	MaxBackups int

	// CaseFoldObservations switches observation deduplication (on add and
	// on merge) from exact-string to case-insensitive comparison.
	CaseFoldObservations bool

	// ZeroLengthSelfPath makes FindPaths(A, A, n) yield the zero-length
	// self path. Off by default.
	ZeroLengthSelfPath bool

	// Logger receives structured operation logs. Defaults to a text
	// logger at info level.
	Logger *slog.Logger
}

// Store owns the canonical Graph instance and coordinates locking, atomic
// file persistence, implicit pre-mutation backups, and restore.
type Store struct {
	mu    sync.Mutex
	graph *types.Graph

	path       string
	backupDir  string
	maxBackups int

	caseFoldObservations bool
	zeroLengthSelfPath   bool

	log *slog.Logger
}

// New loads the graph from opts.Path and returns a ready Store. An absent
// file yields an empty graph; a structurally invalid file fails with
// CorruptData; an unreadable file fails with IOFailure.
func New(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, types.NewInvalidArgumentError("graph file path is required")
	}
	s := &Store{
		path:                 opts.Path,
		backupDir:            opts.BackupDir,
		maxBackups:           opts.MaxBackups,
		caseFoldObservations: opts.CaseFoldObservations,
		zeroLengthSelfPath:   opts.ZeroLengthSelfPath,
		log:                  opts.Logger,
	}
	if s.backupDir == "" {
		s.backupDir = filepath.Join(filepath.Dir(opts.Path), "backups")
	}
	if s.maxBackups == 0 {
		s.maxBackups = DefaultMaxBackups
	}
	if s.log == nil {
		s.log = logger.NewDefaultLogger(slog.LevelInfo)
	}

	g, err := s.load()
	if err != nil {
		return nil, err
	}
	s.graph = g
	s.log.Info("Graph loaded", "path", s.path, "entities", len(g.Entities), "relations", len(g.Relations))
	return s, nil
}

// Path returns the graph file location this store persists to.
func (s *Store) Path() string { return s.path }

// mutate runs fn against the live graph under the exclusive lock. The
// pre-mutation state is backed up first; after fn succeeds the graph is
// persisted atomically. If persisting fails the in-memory graph is rolled
// back so it never diverges from the file, and the prior file is intact.
func (s *Store) mutate(op string, fn func(g *types.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backupLocked(); err != nil {
		return err
	}

	prior := s.graph.Clone()
	if err := fn(s.graph); err != nil {
		s.graph = prior
		return err
	}

	if err := s.persistLocked(); err != nil {
		s.graph = prior
		return err
	}
	s.log.Debug("Graph persisted", "op", op, "entities", len(s.graph.Entities), "relations", len(s.graph.Relations))
	return nil
}

// view runs fn against the live graph under the lock without persisting.
// Reads hold the same exclusive lock as writes; the engine tolerates
// multi-threaded dispatch by its host even though the expected call
// pattern is one request at a time.
func (s *Store) view(fn func(g *types.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.graph)
}
