package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Header is the first line of a trace.
type Header struct {
	RunID          string    `json:"run_id"`
	Started        time.Time `json:"started"`
	Seed           int64     `json:"seed"`
	Layout         string    `json:"layout"`
	Generator      string    `json:"generator"`
	RenderDistance float64   `json:"render_distance"`
	MaxRequests    int       `json:"max_requests_per_tick"`
}

// Pos is a chunk position in trace form.
type Pos [3]int

// Tick records one frame of streaming activity.
type Tick struct {
	Frame     int        `json:"frame"`
	Viewpoint [3]float32 `json:"viewpoint"`
	Player    Pos        `json:"player"`
	Requested []Pos      `json:"requested,omitempty"`
	Evicted   []Pos      `json:"evicted,omitempty"`
	Retried   []Pos      `json:"retried,omitempty"`
	Uploaded  int        `json:"uploaded"`
	Resident  int        `json:"resident"`
}

// Writer appends zstd-compressed JSON lines.
type Writer struct {
	mu  sync.Mutex
	f   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter starts a trace on w and writes h, filling in RunID and Started
// when they are empty.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	tw := &Writer{enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}
	if h.RunID == "" {
		h.RunID = uuid.NewString()
	}
	if h.Started.IsZero() {
		h.Started = time.Now().UTC()
	}
	if err := tw.write(h); err != nil {
		return nil, err
	}
	return tw, nil
}

// Create opens path for writing and starts a trace there.
func Create(path string, h Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.f = f
	return w, nil
}

// WriteTick appends one tick.
func (w *Writer) WriteTick(t Tick) error { return w.write(t) }

func (w *Writer) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return errors.New("trace writer closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Close flushes the trace and closes the file opened by Create.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}
	errFlush := w.w.Flush()
	errEnc := w.enc.Close()
	var errFile error
	if w.f != nil {
		errFile = w.f.Close()
	}
	w.w, w.enc, w.f = nil, nil, nil
	return errors.Join(errFlush, errEnc, errFile)
}

// Read decodes a whole trace.
func Read(r io.Reader) (Header, []Tick, error) {
	var h Header
	dec, err := zstd.NewReader(r)
	if err != nil {
		return h, nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return h, nil, fmt.Errorf("read trace header: %w", err)
		}
		return h, nil, errors.New("empty trace")
	}
	if err := json.Unmarshal(sc.Bytes(), &h); err != nil {
		return h, nil, fmt.Errorf("parse trace header: %w", err)
	}

	var ticks []Tick
	for sc.Scan() {
		var t Tick
		if err := json.Unmarshal(sc.Bytes(), &t); err != nil {
			return h, ticks, fmt.Errorf("parse tick %d: %w", len(ticks), err)
		}
		ticks = append(ticks, t)
	}
	if err := sc.Err(); err != nil {
		return h, ticks, fmt.Errorf("read trace: %w", err)
	}
	return h, ticks, nil
}

// ReadFile decodes the trace at path.
func ReadFile(path string) (Header, []Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Diverge returns the first frame at which two runs requested or evicted
// different chunks. ok is false when the runs agree over their common length.
func Diverge(a, b []Tick) (frame int, ok bool) {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if !slices.Equal(a[i].Requested, b[i].Requested) || !slices.Equal(a[i].Evicted, b[i].Evicted) {
			return a[i].Frame, true
		}
	}
	return 0, false
}
