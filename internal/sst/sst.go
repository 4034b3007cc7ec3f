package sst

import (
	"bytes"
	"fmt"

	"github.com/kvsst/sstcore/internal/block"
	"github.com/kvsst/sstcore/internal/cache"
	"github.com/kvsst/sstcore/internal/compression"
	"github.com/kvsst/sstcore/internal/encoding"
	"github.com/kvsst/sstcore/internal/errs"
	"github.com/kvsst/sstcore/internal/filter"
	"github.com/kvsst/sstcore/internal/logging"
	"github.com/kvsst/sstcore/internal/vfs"
)

// SST is an immutable, opened sorted-string table file. An SST owns its
// file handle; decoded blocks are shared and obtained through the block
// cache when one is configured.
type SST struct {
	ID    uint64
	Path  string
	file  *vfs.FileObject
	metas []BlockMeta

	metaSectionOffset int64
	bloom             *filter.Filter
	compression       compression.Type
	cache             *cache.BlockCache
	logger            logging.Logger
}

// Open reads an SST's footer and block-meta index from path. blockCache
// may be nil, in which case every block load goes directly to disk.
// logger is optional; when supplied it receives ErrCorruptSst diagnostics
// under NSSST. A nil or omitted logger falls back to logging.OrDefault.
func Open(id uint64, path string, blockCache *cache.BlockCache, comp compression.Type, logger ...logging.Logger) (*SST, error) {
	var lg logging.Logger
	if len(logger) > 0 {
		lg = logger[0]
	}
	lg = logging.OrDefault(lg)

	fo, err := vfs.Open(path)
	if err != nil {
		lg.Errorf(logging.NSSST+"open %s: %v", path, err)
		return nil, err
	}
	size := fo.Size()
	if size < 8 {
		_ = fo.Close()
		err := fmt.Errorf("%w: file too small to hold a footer", errs.ErrCorruptSst)
		lg.Errorf(logging.NSSST+"%s: %v", path, err)
		return nil, err
	}

	tail, err := fo.Read(size-4, 4)
	if err != nil {
		_ = fo.Close()
		return nil, err
	}
	bloomOffset := int64(encoding.U32BE(tail))
	if bloomOffset < 4 || bloomOffset > size-4 {
		_ = fo.Close()
		err := fmt.Errorf("%w: bloom_section_offset %d out of range", errs.ErrCorruptSst, bloomOffset)
		lg.Errorf(logging.NSSST+"%s: %v", path, err)
		return nil, err
	}

	metaOffsetFieldPos := bloomOffset - 4
	metaOffsetBytes, err := fo.Read(metaOffsetFieldPos, 4)
	if err != nil {
		_ = fo.Close()
		return nil, err
	}
	metaSectionOffset := int64(encoding.U32BE(metaOffsetBytes))
	if metaSectionOffset < 0 || metaSectionOffset > metaOffsetFieldPos {
		_ = fo.Close()
		err := fmt.Errorf("%w: meta_section_offset %d out of range", errs.ErrCorruptSst, metaSectionOffset)
		lg.Errorf(logging.NSSST+"%s: %v", path, err)
		return nil, err
	}

	metaBytes, err := fo.Read(metaSectionOffset, int(metaOffsetFieldPos-metaSectionOffset))
	if err != nil {
		_ = fo.Close()
		return nil, err
	}
	metas, err := decodeMeta(metaBytes)
	if err != nil {
		_ = fo.Close()
		lg.Errorf(logging.NSSST+"%s: decode block-meta: %v", path, err)
		return nil, err
	}
	if len(metas) == 0 {
		_ = fo.Close()
		err := fmt.Errorf("%w: block-meta list is empty", errs.ErrCorruptSst)
		lg.Errorf(logging.NSSST+"%s: %v", path, err)
		return nil, err
	}

	bloomBytes, err := fo.Read(bloomOffset, int(size-4-bloomOffset))
	if err != nil {
		_ = fo.Close()
		return nil, err
	}
	bf, err := filter.Decode(bloomBytes)
	if err != nil {
		_ = fo.Close()
		lg.Errorf(logging.NSSST+"%s: decode bloom filter: %v", path, err)
		return nil, err
	}

	lg.Debugf(logging.NSSST+"opened %s: id=%d blocks=%d", path, id, len(metas))
	return &SST{
		ID:                id,
		Path:              path,
		file:              fo,
		metas:             metas,
		metaSectionOffset: metaSectionOffset,
		bloom:             bf,
		compression:       comp,
		cache:             blockCache,
		logger:            lg,
	}, nil
}

// Close releases the underlying file handle.
func (s *SST) Close() error { return s.file.Close() }

// NumBlocks returns the number of data blocks in the file.
func (s *SST) NumBlocks() int { return len(s.metas) }

// FirstKey returns the first key of the file's first block.
func (s *SST) FirstKey() []byte { return s.metas[0].FirstKey }

// LastKey returns the last key of the file's last block.
func (s *SST) LastKey() []byte { return s.metas[len(s.metas)-1].LastKey }

// MayContain reports whether key might be present, per the bloom filter.
// A false result is a reliable negative.
func (s *SST) MayContain(key []byte) bool { return s.bloom.MayContain(key) }

// Logger returns the logger s was opened with (or the WARN-level default).
func (s *SST) Logger() logging.Logger { return s.log() }

func (s *SST) blockRange(idx int) (int64, int64) {
	start := int64(s.metas[idx].Offset)
	end := s.metaSectionOffset
	if idx+1 < len(s.metas) {
		end = int64(s.metas[idx+1].Offset)
	}
	return start, end
}

// LoadBlock decodes block idx, going through the configured cache (if
// any) with a single-flight guarantee against concurrent loaders for the
// same block.
func (s *SST) LoadBlock(idx int) (*block.Block, error) {
	if s.cache == nil {
		return s.readBlock(idx)
	}
	key := cache.Key{SstID: s.ID, BlkIdx: uint32(idx)}
	v, err := s.cache.TryGetWith(key, func() (cache.Block, error) {
		return s.readBlock(idx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*block.Block), nil
}

func (s *SST) readBlock(idx int) (*block.Block, error) {
	if idx < 0 || idx >= len(s.metas) {
		err := fmt.Errorf("%w: block index %d out of range", errs.ErrCorruptSst, idx)
		s.log().Errorf(logging.NSSST+"%s: %v", s.Path, err)
		return nil, err
	}
	start, end := s.blockRange(idx)
	raw, err := s.file.Read(start, int(end-start))
	if err != nil {
		s.log().Errorf(logging.NSSST+"%s: read block %d: %v", s.Path, idx, err)
		return nil, err
	}
	if s.compression == compression.NoCompression {
		return &block.Block{Data: raw}, nil
	}
	if len(raw) < 4 {
		err := fmt.Errorf("%w: compressed block %d missing length header", errs.ErrCorruptSst, idx)
		s.log().Errorf(logging.NSSST+"%s: %v", s.Path, err)
		return nil, err
	}
	uncompressedLen := int(encoding.U32LE(raw[:4]))
	decoded, err := compression.Decompress(s.compression, raw[4:], uncompressedLen)
	if err != nil {
		err = fmt.Errorf("%w: decompress block %d: %v", errs.ErrCorruptSst, idx, err)
		s.log().Errorf(logging.NSSST+"%s: %v", s.Path, err)
		return nil, err
	}
	return &block.Block{Data: decoded}, nil
}

// log returns s's logger, defaulting safely for an SST constructed without
// going through Open (e.g. a zero-value SST built in a test).
func (s *SST) log() logging.Logger { return logging.OrDefault(s.logger) }

// FindBlockIdx returns the rightmost block index whose first key is <=
// targetUserKey, or 0 if every block's first key is greater (positioning
// at the first block is then the caller's responsibility to confirm via a
// seek within it). Per §9, duplicate first_key values across blocks are
// resolved toward the rightmost match.
func (s *SST) FindBlockIdx(targetUserKey []byte) int {
	lo, hi := 0, len(s.metas)-1
	idx := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if bytes.Compare(s.metas[mid].FirstKey, targetUserKey) <= 0 {
			idx = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return idx
}
