package parser

// ClassRef is a constant pool entry for a Java class. Name is the id of
// the symbol holding the class name.
type ClassRef struct {
	Name int64
}

// MethodRef is a constant pool entry for a method. All three fields are
// ids into other pools: Class into the class pool, Name and Signature
// into the symbol pool.
type MethodRef struct {
	Class     int64
	Name      int64
	Signature int64
}

// StackTrace is an ordered sequence of frames, deepest first. Methods
// and FrameTypes run in parallel: frame i executed method Methods[i]
// in mode FrameTypes[i]. Frame type labels live in Reader.FrameTypes.
type StackTrace struct {
	Methods    []int64
	FrameTypes []byte
}

// Depth returns the number of frames.
func (s StackTrace) Depth() int {
	return len(s.Methods)
}
