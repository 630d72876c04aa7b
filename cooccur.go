package glove

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// recordSize is the on-disk width of one CREC: two int32 word ids
// followed by one Real value, no padding.
const recordSize = 4 + 4 + realSize

var _ CoOccurReader = (*coOccurReader)(nil)

// coOccurReader opens path once to learn its size, then hands out an
// independent RecordReader per span. Whether those readers use
// read(2) or an mmap view is fixed at construction time.
type coOccurReader struct {
	path       string
	numRecords int64
	useMmap    bool
}

// NewCoOccurReader opens path to measure it (truncating any partial
// trailing record) and returns a reader ready to be split into worker
// spans. useMmap selects mmap-backed readers instead of seek+read.
func NewCoOccurReader(path string, useMmap bool) (CoOccurReader, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, IOError(path, err)
	}
	return &coOccurReader{
		path:       path,
		numRecords: info.Size() / recordSize,
		useMmap:    useMmap,
	}, nil
}

func (r *coOccurReader) NumRecords() int64 { return r.numRecords }

// Spans splits [0, NumRecords()) into n contiguous, nearly-equal
// spans; any remainder is distributed one record at a time to the
// first spans so every worker's share differs by at most one record.
func (r *coOccurReader) Spans(n int) []Span {
	spans := make([]Span, n)
	base := r.numRecords / int64(n)
	rem := r.numRecords % int64(n)

	var start int64
	for i := 0; i < n; i++ {
		size := base
		if int64(i) < rem {
			size++
		}
		spans[i] = Span{Start: start, End: start + size}
		start += size
	}
	return spans
}

func (r *coOccurReader) Open(span Span) (RecordReader, error) {
	if r.useMmap {
		return openMmapRecordReader(r.path, span)
	}
	return openFileRecordReader(r.path, span)
}

var _ RecordReader = (*fileRecordReader)(nil)

// fileRecordReader reads records sequentially from a per-worker
// *os.File seeked to its span's first record.
type fileRecordReader struct {
	f   *os.File
	r   *bufio.Reader
	buf [recordSize]byte

	remaining int64
}

func openFileRecordReader(path string, span Span) (RecordReader, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, IOError(path, err)
	}
	if _, err := f.Seek(span.Start*recordSize, io.SeekStart); err != nil {
		f.Close()
		return nil, IOError(path, err)
	}
	return &fileRecordReader{
		f:         f,
		r:         bufio.NewReaderSize(f, 256*1024),
		remaining: span.End - span.Start,
	}, nil
}

func (r *fileRecordReader) Read() (CoOccurRecord, error) {
	if r.remaining <= 0 {
		return CoOccurRecord{}, io.EOF
	}
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return CoOccurRecord{}, io.EOF
		}
		return CoOccurRecord{}, err
	}
	r.remaining--
	return decodeRecord(r.buf[:]), nil
}

func (r *fileRecordReader) Close() error { return r.f.Close() }

var _ RecordReader = (*mmapRecordReader)(nil)

// mmapRecordReader reads records out of a shared read-only mapping of
// the whole file, advancing a cursor by recordSize per Read. The
// mapping is unmapped on Close.
type mmapRecordReader struct {
	f      *os.File
	data   []byte
	cursor int64
	end    int64 // byte offset, exclusive
}

func openMmapRecordReader(path string, span Span) (RecordReader, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, IOError(path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, IOError(path, err)
	}
	if info.Size() == 0 {
		f.Close()
		return &mmapRecordReader{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, IOError(path, err)
	}

	end := span.End * recordSize
	if end > int64(len(data)) {
		end = int64(len(data))
	}

	return &mmapRecordReader{
		f:      f,
		data:   data,
		cursor: span.Start * recordSize,
		end:    end,
	}, nil
}

func (r *mmapRecordReader) Read() (CoOccurRecord, error) {
	if r.cursor+recordSize > r.end {
		return CoOccurRecord{}, io.EOF
	}
	rec := decodeRecord(r.data[r.cursor : r.cursor+recordSize])
	r.cursor += recordSize
	return rec, nil
}

func (r *mmapRecordReader) Close() error {
	if r.data != nil {
		if err := unix.Munmap(r.data); err != nil {
			r.f.Close()
			return err
		}
	}
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

func decodeRecord(buf []byte) CoOccurRecord {
	return CoOccurRecord{
		Word1: int32(binary.LittleEndian.Uint32(buf[0:4])),
		Word2: int32(binary.LittleEndian.Uint32(buf[4:8])),
		Val:   getReal(buf[8 : 8+realSize]),
	}
}
