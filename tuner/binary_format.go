package tuner

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// Coefficient cache layout (little endian, whole stream zstd compressed):
//
//	header
//	positions  24 bytes each
//	coeffs     8 bytes each
//	xxhash64 of everything above
var cacheMagic = [4]byte{'G', 'T', 'C', 'C'}

const cacheVersion = 1

// Records are moved through binary.Read/Write in chunks of this many.
const cacheChunk = 1 << 16

type cacheHeader struct {
	Magic     [4]byte
	Version   uint32
	Features  uint32
	Positions uint64
	Coeffs    uint64
}

// SaveBinary writes ds to path as a compressed coefficient cache.
func SaveBinary(path string, ds *Dataset, numParams int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 1<<20)
	zw, err := zstd.NewWriter(bw, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	h := xxhash.New()
	w := io.MultiWriter(zw, h)

	hdr := cacheHeader{
		Magic:     cacheMagic,
		Version:   cacheVersion,
		Features:  uint32(numParams),
		Positions: uint64(len(ds.Positions)),
		Coeffs:    uint64(len(ds.Coeffs)),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writeChunks(w, ds.Positions); err != nil {
		return fmt.Errorf("write positions: %w", err)
	}
	if err := writeChunks(w, ds.Coeffs); err != nil {
		return fmt.Errorf("write coefficients: %w", err)
	}
	if err := binary.Write(zw, binary.LittleEndian, h.Sum64()); err != nil {
		return fmt.Errorf("write checksum: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zstd close: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if st, err := os.Stat(path); err == nil {
		log.Info().
			Str("path", path).
			Str("positions", humanize.Comma(int64(len(ds.Positions)))).
			Str("coefficients", humanize.Comma(int64(len(ds.Coeffs)))).
			Str("size", humanize.Bytes(uint64(st.Size()))).
			Msg("wrote coefficient cache")
	}
	return nil
}

// LoadBinary reads a cache written by SaveBinary for a model with numParams
// features. Any structural damage is reported as ErrBadCache.
func LoadBinary(path string, numParams int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	zr, err := zstd.NewReader(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCache, err)
	}
	defer zr.Close()
	h := xxhash.New()
	r := io.TeeReader(zr, h)

	var hdr cacheHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrBadCache, err)
	}
	if hdr.Magic != cacheMagic || hdr.Version != cacheVersion {
		return nil, fmt.Errorf("%w: %s is not a version %d cache", ErrBadCache, path, cacheVersion)
	}
	if int(hdr.Features) != numParams {
		return nil, fmt.Errorf("%w: cache built for %d features, model has %d", ErrLayoutMismatch, hdr.Features, numParams)
	}

	ds := &Dataset{}
	if ds.Positions, err = readChunks[Position](r, hdr.Positions); err != nil {
		return nil, fmt.Errorf("%w: read positions: %v", ErrBadCache, err)
	}
	if ds.Coeffs, err = readChunks[Coefficient](r, hdr.Coeffs); err != nil {
		return nil, fmt.Errorf("%w: read coefficients: %v", ErrBadCache, err)
	}
	sum := h.Sum64()
	var want uint64
	if err := binary.Read(zr, binary.LittleEndian, &want); err != nil {
		return nil, fmt.Errorf("%w: read checksum: %v", ErrBadCache, err)
	}
	if sum != want {
		return nil, fmt.Errorf("%w: checksum %016x, want %016x", ErrBadCache, sum, want)
	}
	if err := ds.Validate(numParams); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCache, err)
	}
	return ds, nil
}

func writeChunks[T any](w io.Writer, items []T) error {
	for off := 0; off < len(items); off += cacheChunk {
		end := min(off+cacheChunk, len(items))
		if err := binary.Write(w, binary.LittleEndian, items[off:end]); err != nil {
			return err
		}
	}
	return nil
}

// readChunks grows the result chunk by chunk so a damaged count cannot
// trigger one huge allocation.
func readChunks[T any](r io.Reader, count uint64) ([]T, error) {
	var out []T
	buf := make([]T, cacheChunk)
	for remaining := count; remaining > 0; {
		n := uint64(len(buf))
		if remaining < n {
			n = remaining
		}
		if err := binary.Read(r, binary.LittleEndian, buf[:n]); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		out = append(out, buf[:n]...)
		remaining -= n
	}
	return out, nil
}
