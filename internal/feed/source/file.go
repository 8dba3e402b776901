package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"go.uber.org/zap"
)

// FileSource implements BlockSource over a node's blk*.dat directory.
// Files are append-only; the newest one may still be written to, so a partial
// record at its tail means "come back later" rather than corruption. The same
// condition anywhere else is fatal for that file and surfaces as ErrCorrupt.
type FileSource struct {
	dir     string
	magic   uint32
	genesis chainhash.Hash
	logger  *zap.Logger

	mu       sync.Mutex
	locs     map[chainhash.Hash]blockLoc
	children map[chainhash.Hash][]chainhash.Hash
	chain    []chainhash.Hash
	scanned  map[string]int64
}

// NewFileSource builds a file-backed block source for the given network.
func NewFileSource(dir string, params *chaincfg.Params, logger *zap.Logger) *FileSource {
	return &FileSource{
		dir:      dir,
		magic:    uint32(params.Net),
		genesis:  *params.GenesisHash,
		logger:   logger.Named("fileSource"),
		locs:     make(map[chainhash.Hash]blockLoc),
		children: make(map[chainhash.Hash][]chainhash.Hash),
		scanned:  make(map[string]int64),
	}
}

// BestHeight returns the tip height of the longest chain linked from genesis.
func (s *FileSource) BestHeight(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.rescan(ctx); err != nil {
		return 0, err
	}
	if len(s.chain) == 0 {
		return 0, fmt.Errorf("no blocks in %s yet: %w", s.dir, ErrNotYetAvailable)
	}
	return uint64(len(s.chain) - 1), nil
}

// BlockHash returns the best-chain hash at height, rescanning the directory
// when the height is beyond the currently known tip.
func (s *FileSource) BlockHash(ctx context.Context, height uint64) (chainhash.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if height >= uint64(len(s.chain)) {
		if err := s.rescan(ctx); err != nil {
			return chainhash.Hash{}, err
		}
	}
	if height >= uint64(len(s.chain)) {
		return chainhash.Hash{}, fmt.Errorf("height %d beyond file tip %d: %w",
			height, len(s.chain)-1, ErrNotYetAvailable)
	}
	return s.chain[height], nil
}

// RawBlock reads the serialized block bytes for hash from its block file.
func (s *FileSource) RawBlock(ctx context.Context, hash chainhash.Hash) ([]byte, error) {
	s.mu.Lock()
	loc, ok := s.locs[hash]
	if !ok {
		if err := s.rescan(ctx); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		loc, ok = s.locs[hash]
	}
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("block %s not in %s: %w", hash, s.dir, ErrNotFound)
	}

	f, err := os.Open(loc.file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc.file, err)
	}
	defer f.Close()

	raw := make([]byte, loc.length)
	if _, err := f.ReadAt(raw, loc.offset); err != nil {
		return nil, fmt.Errorf("read block %s from %s: %w", hash, loc.file, ErrCorrupt)
	}
	return raw, nil
}

// rescan picks up appended records and new files, then relinks the chain.
// Callers hold s.mu.
func (s *FileSource) rescan(ctx context.Context) error {
	paths, err := filepath.Glob(filepath.Join(s.dir, "blk*.dat"))
	if err != nil {
		return fmt.Errorf("list block files: %w", err)
	}
	sort.Strings(paths)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		locs, scanned, partial, err := scanFile(path, s.magic, s.scanned[path])
		if err != nil {
			return err
		}
		if partial && i != len(paths)-1 {
			return fmt.Errorf("truncated block record in %s: %w", path, ErrCorrupt)
		}
		s.scanned[path] = scanned
		for _, loc := range locs {
			if _, seen := s.locs[loc.hash]; seen {
				continue
			}
			s.locs[loc.hash] = loc
			s.children[loc.prev] = append(s.children[loc.prev], loc.hash)
		}
		if len(locs) > 0 {
			s.logger.Debug("scanned block file",
				zap.String("file", path),
				zap.Int("blocks", len(locs)),
				zap.Bool("partialTail", partial),
			)
		}
	}

	s.relink()
	return nil
}

// relink rebuilds the height-ordered best chain from genesis, preferring the
// branch with the longest descendant path at every fork.
func (s *FileSource) relink() {
	s.chain = s.chain[:0]
	cur := s.genesis
	if _, ok := s.locs[cur]; !ok {
		return
	}
	depths := make(map[chainhash.Hash]int)
	for {
		s.chain = append(s.chain, cur)
		kids := s.children[cur]
		if len(kids) == 0 {
			return
		}
		best := kids[0]
		for _, kid := range kids[1:] {
			if s.depth(kid, depths) > s.depth(best, depths) {
				best = kid
			}
		}
		cur = best
	}
}

func (s *FileSource) depth(hash chainhash.Hash, memo map[chainhash.Hash]int) int {
	if d, ok := memo[hash]; ok {
		return d
	}
	max := 0
	for _, kid := range s.children[hash] {
		if d := s.depth(kid, memo); d > max {
			max = d
		}
	}
	memo[hash] = max + 1
	return max + 1
}
