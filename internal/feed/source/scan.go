package source

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const blockHeaderLen = 80

// blockLoc locates one serialized block inside a block file.
type blockLoc struct {
	hash   chainhash.Hash
	prev   chainhash.Hash
	file   string
	offset int64
	length uint32
}

// scanFile scans a block file for magic-delimited block records starting at
// offset from. It returns the complete blocks found, the offset just past the
// last complete record (the resume point for the next scan), and whether the
// file ended mid-record. A partial tail is normal for the file currently
// being appended to by the node; callers decide whether it is corruption.
func scanFile(path string, magic uint32, from int64) (locs []blockLoc, scanned int64, partial bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, from, false, fmt.Errorf("open block file: %w", err)
	}
	defer f.Close()

	if from > 0 {
		if _, err := f.Seek(from, io.SeekStart); err != nil {
			return nil, from, false, fmt.Errorf("seek block file: %w", err)
		}
	}

	r := bufio.NewReaderSize(f, 1<<20)
	pos := from
	scanned = from
	var rolling uint32

	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return locs, scanned, partial, nil
		}
		if err != nil {
			return locs, scanned, partial, fmt.Errorf("read block file: %w", err)
		}
		pos++
		// Rolling 4-byte window so the magic can be found without seeking
		// back, even across garbage or zero padding between records.
		rolling = rolling>>8 | uint32(b)<<24
		if rolling != magic {
			continue
		}
		rolling = 0

		lenBuf, err := r.Peek(4)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return locs, scanned, true, nil
			}
			return locs, scanned, partial, fmt.Errorf("read block length: %w", err)
		}
		length := binary.LittleEndian.Uint32(lenBuf)
		if length < blockHeaderLen {
			// Magic bytes occurring inside block data, not a record start.
			// The peeked bytes stay unconsumed so a real record overlapping
			// them is still found by the rolling window.
			continue
		}
		if _, err := r.Discard(4); err != nil {
			return locs, scanned, partial, fmt.Errorf("read block length: %w", err)
		}
		pos += 4

		start := pos
		var hdr [blockHeaderLen]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return locs, scanned, true, nil
			}
			return locs, scanned, partial, fmt.Errorf("read block header: %w", err)
		}
		pos += blockHeaderLen

		remainder := int64(length) - blockHeaderLen
		if n, err := io.CopyN(io.Discard, r, remainder); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || n < remainder {
				return locs, scanned, true, nil
			}
			return locs, scanned, partial, fmt.Errorf("skip block body: %w", err)
		}
		pos += remainder

		var prev chainhash.Hash
		copy(prev[:], hdr[4:36])
		locs = append(locs, blockLoc{
			hash:   chainhash.DoubleHashH(hdr[:]),
			prev:   prev,
			file:   path,
			offset: start,
			length: length,
		})
		scanned = pos
	}
}
