package parser

import (
	"encoding/binary"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/elastic/go-freelru"
)

// methodNameCacheSize bounds the resolver's method name cache. Hot
// profiles reference the same few thousand methods from millions of
// frames, so a small LRU absorbs nearly all lookups.
const methodNameCacheSize = 8192

// Resolver turns ids from events and stack traces into human-readable
// names using the reader's dictionaries. Method names are assembled
// from three dictionary hops plus byte-to-string conversions, so
// resolved names are cached in an LRU keyed by method id.
//
// Dangling ids are not errors: lookups report absence and the caller
// decides how to render an unknown frame.
//
// A Resolver is as single-threaded as the Reader it wraps.
type Resolver struct {
	reader      *Reader
	methodNames *freelru.LRU[int64, string]
}

// NewResolver creates a resolver over r's dictionaries.
func NewResolver(r *Reader) (*Resolver, error) {
	lru, err := freelru.New[int64, string](methodNameCacheSize, hashID)
	if err != nil {
		return nil, err
	}

	return &Resolver{reader: r, methodNames: lru}, nil
}

func hashID(id int64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(id))

	return uint32(xxhash.Sum64(b[:]))
}

// Symbol returns the symbol with the given id as a string.
func (res *Resolver) Symbol(id int64) (string, bool) {
	b, ok := res.reader.Symbols.Get(id)
	if !ok {
		return "", false
	}

	return string(b), true
}

// ThreadName returns the display name of a thread: the Java thread name
// when the writer recorded one, the OS thread name otherwise.
func (res *Resolver) ThreadName(tid int64) (string, bool) {
	return res.reader.Threads.Get(tid)
}

// ClassName returns the dotted name of a class, e.g. "java.lang.String".
// Symbols store JVM internal names with slashes.
func (res *Resolver) ClassName(classID int64) (string, bool) {
	class, ok := res.reader.Classes.Get(classID)
	if !ok {
		return "", false
	}
	name, ok := res.Symbol(class.Name)
	if !ok {
		return "", false
	}

	return strings.ReplaceAll(name, "/", "."), true
}

// MethodName returns "Class.method" for a method id.
func (res *Resolver) MethodName(methodID int64) (string, bool) {
	if name, ok := res.methodNames.Get(methodID); ok {
		return name, true
	}

	method, ok := res.reader.Methods.Get(methodID)
	if !ok {
		return "", false
	}
	name, ok := res.Symbol(method.Name)
	if !ok {
		return "", false
	}
	if class, ok := res.ClassName(method.Class); ok && class != "" {
		name = class + "." + name
	}

	res.methodNames.Add(methodID, name)

	return name, true
}

// StackFrames resolves a stack trace id into method names, deepest
// frame first. Frames whose method id dangles render as "[unknown]".
func (res *Resolver) StackFrames(stackTraceID int64) ([]string, bool) {
	trace, ok := res.reader.StackTraces.Get(stackTraceID)
	if !ok {
		return nil, false
	}

	frames := make([]string, trace.Depth())
	for i, methodID := range trace.Methods {
		if name, ok := res.MethodName(methodID); ok {
			frames[i] = name
		} else {
			frames[i] = "[unknown]"
		}
	}

	return frames, true
}
