package sst

import (
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

// Builder wraps a block.Builder, splitting into a new block whenever the
// current one rejects an entry, and accumulates the bloom filter and
// block-meta index as it goes.
type Builder struct {
	blockSize   int
	compression compression.Type
	logger      logging.Logger

	curBlock *block.Builder
	dataBuf  []byte
	metas    []BlockMeta
	filterB  *filter.Builder

	blockFirstKey []byte
	blockLastKey  []byte
}

// NewBuilder returns a Builder targeting blockSize-byte data blocks,
// compressing each finished block with comp (compression.NoCompression
// for the byte-exact default). logger is optional; when supplied it is
// carried into the SST Build opens for later use by its cursors. A nil or
// omitted logger falls back to logging.OrDefault.
func NewBuilder(blockSize int, comp compression.Type, logger ...logging.Logger) *Builder {
	var lg logging.Logger
	if len(logger) > 0 {
		lg = logger[0]
	}
	return &Builder{
		blockSize:   blockSize,
		compression: comp,
		logger:      logging.OrDefault(lg),
		curBlock:    block.NewBuilder(blockSize),
		filterB:     filter.NewBuilder(),
	}
}

// Add appends (key, ts, value). If the current block rejects it, the
// block is finished and a fresh one retried; per §4.5 the retry must
// succeed since a brand-new block always accepts its first entry.
func (b *Builder) Add(key []byte, ts uint64, value []byte) error {
	if !b.curBlock.Add(key, ts, value) {
		if err := b.finishBlock(); err != nil {
			return err
		}
		b.curBlock = block.NewBuilder(b.blockSize)
		if !b.curBlock.Add(key, ts, value) {
			return fmt.Errorf("%w: key %q (%d bytes) plus value (%d bytes) exceeds block size %d",
				errs.ErrBuilderOversize, key, len(key), len(value), b.blockSize)
		}
	}
	b.filterB.Add(key)
	if b.blockFirstKey == nil {
		b.blockFirstKey = append([]byte(nil), key...)
	}
	b.blockLastKey = append([]byte(nil), key...)
	return nil
}

func (b *Builder) finishBlock() error {
	if b.curBlock.Empty() {
		return nil
	}
	blk, err := b.curBlock.Build()
	if err != nil {
		return err
	}
	offset := uint32(len(b.dataBuf))
	raw := blk.Data
	if b.compression != compression.NoCompression {
		compressed, err := compression.Compress(b.compression, raw)
		if err != nil {
			return err
		}
		wrapped := encoding.PutU32LE(nil, uint32(len(raw)))
		raw = append(wrapped, compressed...)
	}
	b.dataBuf = append(b.dataBuf, raw...)
	b.metas = append(b.metas, BlockMeta{Offset: offset, FirstKey: b.blockFirstKey, LastKey: b.blockLastKey})
	b.blockFirstKey = nil
	b.blockLastKey = nil
	return nil
}

// Build finalizes any partial block, appends the meta and bloom filter
// sections and their footers, and writes the result to path atomically
// (fsync before returning), then opens and returns the resulting SST.
func (b *Builder) Build(id uint64, path string, blockCache *cache.BlockCache) (*SST, error) {
	if err := b.finishBlock(); err != nil {
		return nil, err
	}
	if len(b.metas) == 0 {
		return nil, fmt.Errorf("%w: no entries were added", errs.ErrCorruptSst)
	}

	buf := append([]byte(nil), b.dataBuf...)
	metaSectionOffset := uint32(len(buf))
	buf = append(buf, encodeMeta(b.metas)...)
	buf = encoding.PutU32BE(buf, metaSectionOffset)

	bloomSectionOffset := uint32(len(buf))
	bloomBytes, err := b.filterB.Finish()
	if err != nil {
		return nil, err
	}
	buf = append(buf, bloomBytes...)
	buf = encoding.PutU32BE(buf, bloomSectionOffset)

	if _, err := vfs.Create(path, buf); err != nil {
		return nil, err
	}
	b.logger.Debugf(logging.NSSST+"built %s: id=%d blocks=%d bytes=%d", path, id, len(b.metas), len(buf))
	return Open(id, path, blockCache, b.compression, b.logger)
}
