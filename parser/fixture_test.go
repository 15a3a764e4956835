package parser

import (
	"encoding/binary"

	"github.com/chongzai/jfr/format"
)

// Test fixtures are synthesized chunk images: the reader never writes
// JFR, so the encoders below live with the tests. Record sizes and pool
// block deltas depend on their own varint widths, hence the fixed-point
// loops in frameRecord and chainedPoolBlock.

func appendVarint(b []byte, v uint32) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}

	return append(b, byte(v))
}

func appendVarlong(b []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		if v < 0x80 {
			return append(b, byte(v))
		}
		b = append(b, byte(v)|0x80)
		v >>= 7
	}

	return append(b, byte(v))
}

func appendString(b []byte, s string) []byte {
	b = append(b, format.StringUTF8)
	b = appendVarint(b, uint32(len(s)))

	return append(b, s...)
}

func appendNullString(b []byte) []byte {
	return append(b, format.StringNull)
}

// frameRecord prepends the self-inclusive size varint to rest.
func frameRecord(rest []byte) []byte {
	size := len(rest) + 1
	for {
		head := appendVarint(nil, uint32(size))
		if len(head)+len(rest) == size {
			return append(head, rest...)
		}
		size = len(head) + len(rest)
	}
}

// metaElement models one node of a metadata tree fixture.
type metaElement struct {
	name     string
	attrs    [][2]string
	children []*metaElement
}

func classElement(id string, name, superType string, fields ...*metaElement) *metaElement {
	attrs := [][2]string{{"id", id}, {"name", name}}
	if superType != "" {
		attrs = append(attrs, [2]string{"superType", superType})
	}

	return &metaElement{name: "class", attrs: attrs, children: fields}
}

func fieldElement(name, typeID string, constantPool bool) *metaElement {
	attrs := [][2]string{{"name", name}, {"type", typeID}}
	if constantPool {
		attrs = append(attrs, [2]string{"constantPool", "true"})
	}

	return &metaElement{name: "field", attrs: attrs}
}

type interner struct {
	index map[string]uint32
	list  []string
}

func (in *interner) intern(s string) uint32 {
	if idx, ok := in.index[s]; ok {
		return idx
	}
	idx := uint32(len(in.list))
	in.index[s] = idx
	in.list = append(in.list, s)

	return idx
}

func (in *interner) internTree(e *metaElement) {
	in.intern(e.name)
	for _, kv := range e.attrs {
		in.intern(kv[0])
		in.intern(kv[1])
	}
	for _, child := range e.children {
		in.internTree(child)
	}
}

func (in *interner) serializeTree(b []byte, e *metaElement) []byte {
	b = appendVarint(b, in.index[e.name])
	b = appendVarint(b, uint32(len(e.attrs)))
	for _, kv := range e.attrs {
		b = appendVarint(b, in.index[kv[0]])
		b = appendVarint(b, in.index[kv[1]])
	}
	b = appendVarint(b, uint32(len(e.children)))
	for _, child := range e.children {
		b = in.serializeTree(b, child)
	}

	return b
}

// metadataRecord frames a metadata record: type, three timestamps, the
// string pool, then the element tree.
func metadataRecord(schema *metaElement) []byte {
	in := &interner{index: make(map[string]uint32)}
	in.internTree(schema)

	rest := appendVarint(nil, 0)
	for i := 0; i < 3; i++ {
		rest = appendVarlong(rest, 0)
	}
	rest = appendVarint(rest, uint32(len(in.list)))
	for _, s := range in.list {
		rest = appendString(rest, s)
	}
	rest = in.serializeTree(rest, schema)

	return frameRecord(rest)
}

func poolRest(delta uint64, poolCount int, entries []byte) []byte {
	b := appendVarint(nil, 1)
	b = appendVarlong(b, 0)
	b = appendVarlong(b, 0)
	b = appendVarlong(b, delta)
	b = appendVarint(b, 0)
	b = appendVarint(b, uint32(poolCount))

	return append(b, entries...)
}

// lastPoolBlock frames a pool block terminating the chain (delta 0).
func lastPoolBlock(poolCount int, entries []byte) []byte {
	return frameRecord(poolRest(0, poolCount, entries))
}

// chainedPoolBlock frames a pool block whose delta points just past
// itself, i.e. at the block written immediately after it.
func chainedPoolBlock(poolCount int, entries []byte) []byte {
	delta := 0
	for {
		block := frameRecord(poolRest(uint64(delta), poolCount, entries))
		if len(block) == delta {
			return block
		}
		delta = len(block)
	}
}

type poolSpec struct {
	count   int
	entries []byte
}

// chunkBuilder assembles one chunk image: header, framed event records,
// the metadata record, then the constant pool chain.
type chunkBuilder struct {
	schema *metaElement
	events [][]byte
	pools  []poolSpec

	magic   uint32
	version uint32

	startNanos    uint64
	durationNanos uint64
	startTicks    uint64
	ticksPerSec   uint64
}

func newChunkBuilder(schema *metaElement) *chunkBuilder {
	return &chunkBuilder{
		schema:      schema,
		pools:       []poolSpec{{}},
		magic:       format.Magic,
		version:     format.VersionMin,
		ticksPerSec: 1_000_000_000,
	}
}

// event appends a framed event record of the given type.
func (cb *chunkBuilder) event(typeID uint32, payload []byte) *chunkBuilder {
	rest := appendVarint(nil, typeID)
	rest = append(rest, payload...)
	cb.events = append(cb.events, frameRecord(rest))

	return cb
}

// pool appends one pool section to the current pool block.
func (cb *chunkBuilder) pool(typeID uint32, body []byte) *chunkBuilder {
	last := &cb.pools[len(cb.pools)-1]
	last.count++
	last.entries = appendVarint(last.entries, typeID)
	last.entries = append(last.entries, body...)

	return cb
}

// newPoolBlock starts another block in the pool chain; subsequent pool
// calls fill the new block.
func (cb *chunkBuilder) newPoolBlock() *chunkBuilder {
	cb.pools = append(cb.pools, poolSpec{})

	return cb
}

func (cb *chunkBuilder) build() []byte {
	var events []byte
	for _, ev := range cb.events {
		events = append(events, ev...)
	}

	meta := metadataRecord(cb.schema)

	var pool []byte
	for i, block := range cb.pools {
		if i == len(cb.pools)-1 {
			pool = append(pool, lastPoolBlock(block.count, block.entries)...)
		} else {
			pool = append(pool, chainedPoolBlock(block.count, block.entries)...)
		}
	}

	metaOffset := format.ChunkHeaderSize + len(events)
	poolOffset := metaOffset + len(meta)
	total := poolOffset + len(pool)

	header := make([]byte, format.ChunkHeaderSize)
	binary.BigEndian.PutUint32(header[0:4], cb.magic)
	binary.BigEndian.PutUint32(header[4:8], cb.version)
	binary.BigEndian.PutUint64(header[8:16], uint64(total))
	binary.BigEndian.PutUint32(header[20:24], uint32(poolOffset))
	binary.BigEndian.PutUint32(header[28:32], uint32(metaOffset))
	binary.BigEndian.PutUint64(header[32:40], cb.startNanos)
	binary.BigEndian.PutUint64(header[40:48], cb.durationNanos)
	binary.BigEndian.PutUint64(header[48:56], cb.startTicks)
	binary.BigEndian.PutUint64(header[56:64], cb.ticksPerSec)

	img := append(header, events...)
	img = append(img, meta...)

	return append(img, pool...)
}

// testSchema declares the well-known types plus the six event types the
// reader recognizes. Event classes carry a superType, so they stay out
// of the top-level type registry exactly like real recordings.
func testSchema() *metaElement {
	classes := []*metaElement{
		classElement("1", "java.lang.String", ""),
		classElement("2", "java.lang.Thread", ""),
		classElement("3", "java.lang.Class", ""),
		classElement("4", "jdk.types.Symbol", ""),
		classElement("5", "jdk.types.Method", ""),
		classElement("6", "jdk.types.StackTrace", ""),
		classElement("7", "jdk.types.FrameType", ""),
		classElement("8", "jdk.types.ThreadState", ""),
		classElement("9", "jdk.types.ChunkHeader", ""),
		classElement("100", "jdk.ExecutionSample", "jdk.jfr.Event"),
		classElement("101", "jdk.NativeMethodSample", "jdk.jfr.Event"),
		classElement("102", "jdk.ObjectAllocationInNewTLAB", "jdk.jfr.Event"),
		classElement("103", "jdk.ObjectAllocationOutsideTLAB", "jdk.jfr.Event"),
		classElement("104", "jdk.JavaMonitorEnter", "jdk.jfr.Event"),
		classElement("105", "jdk.ThreadPark", "jdk.jfr.Event"),
	}

	return &metaElement{
		name:     "root",
		children: []*metaElement{{name: "metadata", children: classes}},
	}
}

const (
	typeString      = 1
	typeThread      = 2
	typeClass       = 3
	typeSymbol      = 4
	typeMethod      = 5
	typeStackTrace  = 6
	typeFrameType   = 7
	typeThreadState = 8
	typeChunkHeader = 9

	typeExecutionSample       = 100
	typeNativeMethodSample    = 101
	typeAllocationInNewTLAB   = 102
	typeAllocationOutsideTLAB = 103
	typeMonitorEnter          = 104
	typeThreadPark            = 105
)

// Event payload encoders, field order matching the wire.

func execSamplePayload(time uint64, tid, stackTraceID, threadState uint32) []byte {
	b := appendVarlong(nil, time)
	b = appendVarint(b, tid)
	b = appendVarint(b, stackTraceID)

	return appendVarint(b, threadState)
}

func allocSamplePayload(time uint64, tid, stackTraceID, classID uint32, allocSize uint64, tlabSize *uint64) []byte {
	b := appendVarlong(nil, time)
	b = appendVarint(b, tid)
	b = appendVarint(b, stackTraceID)
	b = appendVarint(b, classID)
	b = appendVarlong(b, allocSize)
	if tlabSize != nil {
		b = appendVarlong(b, *tlabSize)
	}

	return b
}

func contendedLockPayload(time, duration uint64, tid, stackTraceID, classID uint32, timeout *uint64, address uint64) []byte {
	b := appendVarlong(nil, time)
	b = appendVarlong(b, duration)
	b = appendVarint(b, tid)
	b = appendVarint(b, stackTraceID)
	b = appendVarint(b, classID)
	if timeout != nil {
		b = appendVarlong(b, *timeout)
	}

	return appendVarlong(b, address)
}

// Pool section body encoders.

func threadPoolBody(entries ...threadEntry) []byte {
	b := appendVarint(nil, uint32(len(entries)))
	for _, e := range entries {
		b = appendVarlong(b, e.id)
		b = appendString(b, e.osName)
		b = appendVarint(b, uint32(e.id)) // osThreadId
		if e.hasJavaName {
			b = appendString(b, e.javaName)
		} else {
			b = appendNullString(b)
		}
		b = appendVarlong(b, e.id) // javaThreadId
	}

	return b
}

type threadEntry struct {
	id          uint64
	osName      string
	javaName    string
	hasJavaName bool
}

func classPoolBody(entries map[uint64]uint64) ([]byte, []uint64) {
	ids := make([]uint64, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	b := appendVarint(nil, uint32(len(ids)))
	for _, id := range ids {
		b = appendVarlong(b, id)
		b = appendVarlong(b, 0) // loader
		b = appendVarlong(b, entries[id])
		b = appendVarlong(b, 0) // package
		b = appendVarint(b, 0) // modifiers
	}

	return b, ids
}

func symbolPoolBody(entries map[uint64]string) []byte {
	b := appendVarint(nil, uint32(len(entries)))
	for id, s := range entries {
		b = appendVarlong(b, id)
		b = appendString(b, s)
	}

	return b
}

type methodEntry struct {
	id, class, name, sig uint64
}

func methodPoolBody(entries ...methodEntry) []byte {
	b := appendVarint(nil, uint32(len(entries)))
	for _, e := range entries {
		b = appendVarlong(b, e.id)
		b = appendVarlong(b, e.class)
		b = appendVarlong(b, e.name)
		b = appendVarlong(b, e.sig)
		b = appendVarint(b, 0) // modifiers
		b = appendVarint(b, 0) // hidden
	}

	return b
}

type stackTraceEntry struct {
	id         uint64
	methods    []uint64
	frameTypes []byte
}

func stackTracePoolBody(entries ...stackTraceEntry) []byte {
	b := appendVarint(nil, uint32(len(entries)))
	for _, e := range entries {
		b = appendVarlong(b, e.id)
		b = appendVarint(b, 0) // truncated
		b = appendVarint(b, uint32(len(e.methods)))
		for i, m := range e.methods {
			b = appendVarlong(b, m)
			b = appendVarint(b, 1) // line
			b = appendVarint(b, 0) // bci
			b = append(b, e.frameTypes[i])
		}
	}

	return b
}

func enumPoolBody(values map[uint32]string) []byte {
	b := appendVarint(nil, uint32(len(values)))
	for k, v := range values {
		b = appendVarint(b, k)
		b = appendString(b, v)
	}

	return b
}
