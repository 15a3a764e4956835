package parser

// Kind selects which event types ReadEvent surfaces.
type Kind uint8

const (
	// KindAny matches every recognized event type.
	KindAny Kind = iota
	KindExecutionSample
	KindAllocationSample
	KindContendedLock
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindExecutionSample:
		return "ExecutionSample"
	case KindAllocationSample:
		return "AllocationSample"
	case KindContendedLock:
		return "ContendedLock"
	default:
		return "Unknown"
	}
}

// Event is implemented by every sample record the reader produces.
// Times are in writer ticks; convert with Reader.TicksPerSec.
type Event interface {
	EventKind() Kind
	EventTime() int64
}

// ExecutionSample is a CPU sample: the sampled thread, its stack and
// its state at sampling time. Native method samples surface as
// execution samples too.
type ExecutionSample struct {
	Time         int64
	TID          int32
	StackTraceID int32
	ThreadState  int32
}

func (e ExecutionSample) EventKind() Kind  { return KindExecutionSample }
func (e ExecutionSample) EventTime() int64 { return e.Time }

// AllocationSample is an object allocation: the allocated class, the
// allocation size and, for in-TLAB allocations, the size of the new
// TLAB. TLABSize is zero for allocations outside a TLAB.
type AllocationSample struct {
	Time           int64
	TID            int32
	StackTraceID   int32
	ClassID        int32
	AllocationSize int64
	TLABSize       int64
}

func (e AllocationSample) EventKind() Kind  { return KindAllocationSample }
func (e AllocationSample) EventTime() int64 { return e.Time }

// ContendedLock is a monitor-enter or thread-park sample: the blocked
// thread, its stack, the contended class and how long it waited.
type ContendedLock struct {
	Time         int64
	TID          int32
	StackTraceID int32
	Duration     int64
	ClassID      int32
}

func (e ContendedLock) EventKind() Kind  { return KindContendedLock }
func (e ContendedLock) EventTime() int64 { return e.Time }

func (r *Reader) readExecutionSample() (Event, error) {
	time, err := r.cur.Varlong()
	if err != nil {
		return nil, err
	}
	tid, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	stackTraceID, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	threadState, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}

	return ExecutionSample{Time: time, TID: tid, StackTraceID: stackTraceID, ThreadState: threadState}, nil
}

func (r *Reader) readAllocationSample(tlab bool) (Event, error) {
	time, err := r.cur.Varlong()
	if err != nil {
		return nil, err
	}
	tid, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	stackTraceID, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	classID, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	allocationSize, err := r.cur.Varlong()
	if err != nil {
		return nil, err
	}
	var tlabSize int64
	if tlab {
		if tlabSize, err = r.cur.Varlong(); err != nil {
			return nil, err
		}
	}

	return AllocationSample{
		Time:           time,
		TID:            tid,
		StackTraceID:   stackTraceID,
		ClassID:        classID,
		AllocationSize: allocationSize,
		TLABSize:       tlabSize,
	}, nil
}

func (r *Reader) readContendedLock(hasTimeout bool) (Event, error) {
	time, err := r.cur.Varlong()
	if err != nil {
		return nil, err
	}
	duration, err := r.cur.Varlong()
	if err != nil {
		return nil, err
	}
	tid, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	stackTraceID, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	classID, err := r.cur.Varint()
	if err != nil {
		return nil, err
	}
	if hasTimeout {
		if _, err := r.cur.Varlong(); err != nil {
			return nil, err
		}
	}
	if _, err := r.cur.Varlong(); err != nil { // address
		return nil, err
	}

	return ContendedLock{Time: time, TID: tid, StackTraceID: stackTraceID, Duration: duration, ClassID: classID}, nil
}
