package parser

import (
	"fmt"

	"github.com/chongzai/jfr/errs"
	"github.com/chongzai/jfr/format"
)

// readConstantPool walks the chunk's linked list of pool blocks. Each
// block starts with a record preamble whose fifth value is the byte
// distance to the next block; zero terminates the chain.
func (r *Reader) readConstantPool(blockStart int) error {
	for {
		if err := r.cur.SetPosition(blockStart); err != nil {
			return err
		}

		// size, type
		if _, err := r.cur.Varint(); err != nil {
			return err
		}
		if _, err := r.cur.Varint(); err != nil {
			return err
		}
		// start, duration
		if _, err := r.cur.Varlong(); err != nil {
			return err
		}
		if _, err := r.cur.Varlong(); err != nil {
			return err
		}
		delta, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varint(); err != nil {
			return err
		}

		poolCount, err := r.cur.Varint()
		if err != nil {
			return err
		}
		for i := int32(0); i < poolCount; i++ {
			typ, err := r.cur.Varint()
			if err != nil {
				return err
			}
			class, ok := r.Types.Get(int64(typ))
			if !ok {
				return fmt.Errorf("%w: constant pool references unknown type %d", errs.ErrInvalidFormat, typ)
			}
			if err := r.readConstants(class); err != nil {
				return err
			}
		}

		if delta == 0 {
			return nil
		}
		blockStart += int(delta)
	}
}

// readConstants dispatches one pool section to its decoder: a
// hand-written reader for the well-known types, or the schema-driven
// generic reader for everything else.
func (r *Reader) readConstants(class *JfrClass) error {
	switch class.Name {
	case format.TypeChunkHeader:
		// An embedded copy of this chunk's header plus its tag preamble.
		return r.cur.Skip(format.ChunkHeaderSize + 3)
	case format.TypeThread:
		return r.readThreads(class.Field("group") != nil)
	case format.TypeClass:
		return r.readClasses(class.Field("hidden") != nil)
	case format.TypeSymbol:
		return r.readSymbols()
	case format.TypeMethod:
		return r.readMethods()
	case format.TypeStackTrace:
		return r.readStackTraces()
	case format.TypeFrameType:
		return r.readEnumValues(r.FrameTypes)
	case format.TypeThreadState:
		return r.readEnumValues(r.ThreadStates)
	default:
		return r.readOtherConstants(class.Fields)
	}
}

func (r *Reader) readThreads(hasGroup bool) error {
	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	count := r.Threads.Preallocate(n)
	for i := 0; i < count; i++ {
		id, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		osName, _, err := r.cur.String()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varint(); err != nil { // osThreadId
			return err
		}
		javaName, hasJavaName, err := r.cur.String()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varlong(); err != nil { // javaThreadId
			return err
		}
		if hasGroup {
			if _, err := r.cur.Varlong(); err != nil {
				return err
			}
		}

		if hasJavaName {
			r.Threads.Put(id, javaName)
		} else {
			r.Threads.Put(id, osName)
		}
	}

	return nil
}

func (r *Reader) readClasses(hasHidden bool) error {
	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	count := r.Classes.Preallocate(n)
	for i := 0; i < count; i++ {
		id, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varlong(); err != nil { // loader
			return err
		}
		name, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varlong(); err != nil { // package
			return err
		}
		if _, err := r.cur.Varint(); err != nil { // modifiers
			return err
		}
		if hasHidden {
			if _, err := r.cur.Varint(); err != nil {
				return err
			}
		}

		r.Classes.Put(id, ClassRef{Name: name})
	}

	return nil
}

func (r *Reader) readSymbols() error {
	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	count := r.Symbols.Preallocate(n)
	for i := 0; i < count; i++ {
		id, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		tag, err := r.cur.Byte()
		if err != nil {
			return err
		}
		if tag != format.StringUTF8 {
			return fmt.Errorf("%w: invalid symbol encoding %d", errs.ErrInvalidFormat, tag)
		}
		b, err := r.cur.Bytes()
		if err != nil {
			return err
		}

		r.Symbols.Put(id, b)
	}

	return nil
}

func (r *Reader) readMethods() error {
	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	count := r.Methods.Preallocate(n)
	for i := 0; i < count; i++ {
		id, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		class, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		name, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		sig, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varint(); err != nil { // modifiers
			return err
		}
		if _, err := r.cur.Varint(); err != nil { // hidden
			return err
		}

		r.Methods.Put(id, MethodRef{Class: class, Name: name, Signature: sig})
	}

	return nil
}

func (r *Reader) readStackTraces() error {
	n, err := r.cur.Varint()
	if err != nil {
		return err
	}
	count := r.StackTraces.Preallocate(n)
	for i := 0; i < count; i++ {
		id, err := r.cur.Varlong()
		if err != nil {
			return err
		}
		if _, err := r.cur.Varint(); err != nil { // truncated
			return err
		}
		trace, err := r.readStackTrace()
		if err != nil {
			return err
		}

		r.StackTraces.Put(id, trace)
	}

	return nil
}

func (r *Reader) readStackTrace() (StackTrace, error) {
	depth, err := r.cur.Varint()
	if err != nil {
		return StackTrace{}, err
	}
	if depth < 0 {
		return StackTrace{}, fmt.Errorf("%w: negative stack depth %d", errs.ErrInvalidFormat, depth)
	}

	methods := make([]int64, depth)
	frameTypes := make([]byte, depth)
	for i := int32(0); i < depth; i++ {
		method, err := r.cur.Varlong()
		if err != nil {
			return StackTrace{}, err
		}
		if _, err := r.cur.Varint(); err != nil { // line
			return StackTrace{}, err
		}
		if _, err := r.cur.Varint(); err != nil { // bci
			return StackTrace{}, err
		}
		frameType, err := r.cur.Byte()
		if err != nil {
			return StackTrace{}, err
		}

		methods[i] = method
		frameTypes[i] = frameType
	}

	return StackTrace{Methods: methods, FrameTypes: frameTypes}, nil
}

func (r *Reader) readEnumValues(dst map[int32]string) error {
	count, err := r.cur.Varint()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		key, err := r.cur.Varint()
		if err != nil {
			return err
		}
		value, _, err := r.cur.String()
		if err != nil {
			return err
		}
		dst[key] = value
	}

	return nil
}

// readOtherConstants decodes a pool section for a type without a
// hand-written reader, driven entirely by the declared field schema:
// per entry, one varlong for every numeric or pool-reference field and
// one string for every inline string field. Values are discarded; the
// point is to stay in sync with the cursor.
func (r *Reader) readOtherConstants(fields []*JfrField) error {
	stringType := r.typeID(format.TypeString)

	numeric := make([]bool, len(fields))
	for i, f := range fields {
		numeric[i] = f.ConstantPool || f.Type != stringType
	}

	count, err := r.cur.Varint()
	if err != nil {
		return err
	}
	for i := int32(0); i < count; i++ {
		if _, err := r.cur.Varlong(); err != nil { // id
			return err
		}
		for _, isNumeric := range numeric {
			if isNumeric {
				if _, err := r.cur.Varlong(); err != nil {
					return err
				}
			} else {
				if _, _, err := r.cur.String(); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
