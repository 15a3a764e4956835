package parser

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/chongzai/jfr/compress"
	"github.com/chongzai/jfr/encoding"
	"github.com/chongzai/jfr/errs"
	"github.com/chongzai/jfr/format"
	"github.com/chongzai/jfr/internal/mmap"
	"github.com/chongzai/jfr/section"
)

// Reader reads a JFR recording produced by async-profiler.
//
// Construction fully indexes every chunk: schemas accumulate into the
// type registry, constant pools populate the reference dictionaries,
// and the cursor ends up positioned at the first chunk's event body.
// All exported fields and dictionaries are read-only after Open
// returns.
//
// A Reader owns one moving cursor and is not safe for concurrent use.
type Reader struct {
	cur *encoding.Cursor
	src io.Closer

	detectCompression bool

	// StartNanos is the wall-clock start of the first chunk.
	StartNanos int64
	// DurationNanos spans from StartNanos to the latest chunk end.
	DurationNanos int64
	// StartTicks and TicksPerSec convert event times to wall clock.
	StartTicks  int64
	TicksPerSec int64

	// Types maps type ids to top-level classes (those without a
	// superType); these are the types constant pool sections dispatch
	// on. TypesByName indexes every declared class by qualified name,
	// last writer wins across chunks.
	Types       *Dictionary[*JfrClass]
	TypesByName map[string]*JfrClass

	// Reference dictionaries populated from the constant pools.
	Threads     *Dictionary[string]
	Classes     *Dictionary[ClassRef]
	Symbols     *Dictionary[[]byte]
	Methods     *Dictionary[MethodRef]
	StackTraces *Dictionary[StackTrace]

	FrameTypes   map[int32]string
	ThreadStates map[int32]string

	// Memoized event type ids; -1 when a chunk never declares the type,
	// which matches no event.
	executionSample       int32
	nativeMethodSample    int32
	allocationInNewTLAB   int32
	allocationOutsideTLAB int32
	monitorEnter          int32
	threadPark            int32
}

// Option configures a Reader before it indexes the recording.
type Option func(*Reader)

// WithCompressionDetection controls magic-byte sniffing for compressed
// recording containers. Detection is on by default; disable it to
// treat the input bytes as a plain recording no matter what they look
// like.
func WithCompressionDetection(enabled bool) Option {
	return func(r *Reader) {
		r.detectCompression = enabled
	}
}

// Open memory-maps the named recording and fully indexes it. Compressed
// containers (gzip, zstd, lz4, s2) are decompressed into memory first.
// The returned reader must be closed to release the mapping; closing is
// the only way the mapping is released on the success path, while every
// error path releases it before returning.
func Open(path string, opts ...Option) (*Reader, error) {
	r := newReader(opts)

	f, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	data := f.Data()
	src := io.Closer(f)

	if r.detectCompression {
		if ct := compress.Detect(data); ct != format.CompressionNone {
			log.Debugf("jfr: unwrapping %s container of %d bytes", ct, len(data))
			decompressed, derr := compress.Decompress(ct, data)
			cerr := f.Close()
			if derr != nil {
				return nil, fmt.Errorf("decompress recording: %w", derr)
			}
			if cerr != nil {
				return nil, cerr
			}
			data, src = decompressed, nil
		}
	}

	if err := r.index(data, src); err != nil {
		if src != nil {
			_ = src.Close()
		}

		return nil, err
	}

	return r, nil
}

// OpenBytes indexes a recording already held in memory. The reader
// borrows data for its whole lifetime; Close is a no-op.
func OpenBytes(data []byte, opts ...Option) (*Reader, error) {
	r := newReader(opts)

	if r.detectCompression {
		if ct := compress.Detect(data); ct != format.CompressionNone {
			decompressed, err := compress.Decompress(ct, data)
			if err != nil {
				return nil, fmt.Errorf("decompress recording: %w", err)
			}
			data = decompressed
		}
	}

	if err := r.index(data, nil); err != nil {
		return nil, err
	}

	return r, nil
}

func newReader(opts []Option) *Reader {
	r := &Reader{
		detectCompression: true,
		Types:             NewDictionary[*JfrClass](),
		TypesByName:       make(map[string]*JfrClass),
		Threads:           NewDictionary[string](),
		Classes:           NewDictionary[ClassRef](),
		Symbols:           NewDictionary[[]byte](),
		Methods:           NewDictionary[MethodRef](),
		StackTraces:       NewDictionary[StackTrace](),
		FrameTypes:        make(map[int32]string),
		ThreadStates:      make(map[int32]string),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Close releases the underlying mapping. Dictionaries and previously
// returned events stay valid; they do not alias the mapping.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	src := r.src
	r.src = nil

	return src.Close()
}

// index walks every chunk in the image, building the type registry and
// the reference dictionaries, then positions the cursor at the first
// chunk's event body.
func (r *Reader) index(data []byte, src io.Closer) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty recording", errs.ErrUnexpectedEOF)
	}

	r.cur = encoding.NewCursor(data)
	r.src = src

	var endNanos int64
	for chunkStart := 0; chunkStart < len(data); {
		header, err := section.ParseChunkHeader(data[chunkStart:])
		if err != nil {
			return err
		}
		if header.ChunkLength < format.ChunkHeaderSize {
			return fmt.Errorf("%w: chunk length %d at offset %d", errs.ErrInvalidFormat, header.ChunkLength, chunkStart)
		}

		if chunkStart == 0 {
			r.StartNanos = header.StartNanos
			r.StartTicks = header.StartTicks
			r.TicksPerSec = header.TicksPerSec
		}
		endNanos = max(endNanos, header.EndNanos())

		if err := r.readChunk(chunkStart, header); err != nil {
			return err
		}

		chunkStart += int(header.ChunkLength)
	}
	r.DurationNanos = endNanos - r.StartNanos

	r.executionSample = r.typeID(format.EventExecutionSample)
	r.nativeMethodSample = r.typeID(format.EventNativeMethodSample)
	r.allocationInNewTLAB = r.typeID(format.EventAllocationInNewTLAB)
	r.allocationOutsideTLAB = r.typeID(format.EventAllocationOutsideTLAB)
	r.monitorEnter = r.typeID(format.EventJavaMonitorEnter)
	r.threadPark = r.typeID(format.EventThreadPark)

	log.Debugf("jfr: indexed recording: %d types, %d threads, %d methods, %d stack traces",
		r.Types.Len(), r.Threads.Len(), r.Methods.Len(), r.StackTraces.Len())

	_, err := r.moveToNextChunk(0)

	return err
}

// readChunk parses one chunk's metadata record and constant pool chain.
func (r *Reader) readChunk(chunkStart int, header section.ChunkHeader) error {
	if err := r.cur.SetPosition(chunkStart + int(header.MetadataOffset)); err != nil {
		return err
	}
	if err := r.readMeta(); err != nil {
		return err
	}

	return r.readConstantPool(chunkStart + int(header.ConstantPoolOffset))
}

// moveToNextChunk narrows the cursor window to the event body of the
// chunk starting at chunkStart. The limit is raised to the body start
// before the position moves and re-narrowed to the chunk end after,
// because the new position may lie beyond the old limit.
func (r *Reader) moveToNextChunk(chunkStart int) (bool, error) {
	body := chunkStart + format.ChunkHeaderSize
	if body >= r.cur.Len() {
		return false, nil
	}

	chunkLength, err := r.cur.Uint64At(chunkStart + format.ChunkSizeOffset)
	if err != nil {
		return false, err
	}
	if err := r.cur.SetLimit(body); err != nil {
		return false, err
	}
	if err := r.cur.SetPosition(body); err != nil {
		return false, err
	}
	if err := r.cur.SetLimit(chunkStart + int(chunkLength)); err != nil {
		return false, err
	}

	return true, nil
}

// ReadEvent returns the next event of any recognized kind, or nil when
// the recording is exhausted.
func (r *Reader) ReadEvent() (Event, error) {
	return r.readEvent(KindAny)
}

// ReadAllEvents drains the stream and returns the events sorted by time
// ascending. Events within a chunk are only roughly time-ordered on the
// wire, so the sort is unconditional; ties keep wire order.
func (r *Reader) ReadAllEvents() ([]Event, error) {
	var events []Event
	for {
		ev, err := r.ReadEvent()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			break
		}
		events = append(events, ev)
	}
	sortEvents(events)

	return events, nil
}

func (r *Reader) readEvent(kind Kind) (Event, error) {
	for {
		if !r.cur.HasRemaining() {
			ok, err := r.moveToNextChunk(r.cur.Pos())
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, nil
			}

			continue
		}

		start := r.cur.Pos()
		size, err := r.cur.Varint()
		if err != nil {
			return nil, err
		}
		typ, err := r.cur.Varint()
		if err != nil {
			return nil, err
		}

		switch {
		case typ == r.executionSample || typ == r.nativeMethodSample:
			if kind == KindAny || kind == KindExecutionSample {
				return r.readExecutionSample()
			}
		case typ == r.allocationInNewTLAB:
			if kind == KindAny || kind == KindAllocationSample {
				return r.readAllocationSample(true)
			}
		case typ == r.allocationOutsideTLAB:
			if kind == KindAny || kind == KindAllocationSample {
				return r.readAllocationSample(false)
			}
		case typ == r.monitorEnter:
			if kind == KindAny || kind == KindContendedLock {
				return r.readContendedLock(false)
			}
		case typ == r.threadPark:
			if kind == KindAny || kind == KindContendedLock {
				return r.readContendedLock(true)
			}
		}

		if size <= 0 {
			return nil, fmt.Errorf("%w: event size %d at offset %d", errs.ErrInvalidFormat, size, start)
		}
		if err := r.cur.SetPosition(start + int(size)); err != nil {
			return nil, err
		}
	}
}

// ReadEventOf returns the next event of kind E, skipping events of
// other kinds. ok is false when the recording is exhausted.
func ReadEventOf[E Event](r *Reader) (ev E, ok bool, err error) {
	var zero E
	e, err := r.readEvent(zero.EventKind())
	if err != nil || e == nil {
		return zero, false, err
	}

	return e.(E), true, nil
}

// ReadAllEventsOf drains the stream, returning only events of kind E,
// sorted by time ascending.
func ReadAllEventsOf[E Event](r *Reader) ([]E, error) {
	var events []E
	for {
		ev, ok, err := ReadEventOf[E](r)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		events = append(events, ev)
	}
	slices.SortStableFunc(events, func(a, b E) int {
		return cmp.Compare(a.EventTime(), b.EventTime())
	})

	return events, nil
}

func sortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return cmp.Compare(a.EventTime(), b.EventTime())
	})
}

func (r *Reader) typeID(name string) int32 {
	if class, ok := r.TypesByName[name]; ok {
		return class.ID
	}

	return -1
}
