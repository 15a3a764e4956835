package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newResolverFixture(t *testing.T) *Resolver {
	t.Helper()

	classBody, _ := classPoolBody(map[uint64]uint64{20: 10})
	cb := newChunkBuilder(testSchema())
	cb.pool(typeSymbol, symbolPoolBody(map[uint64]string{
		10: "java/lang/Object",
		11: "wait",
		12: "()V",
	}))
	cb.pool(typeClass, classBody)
	cb.pool(typeMethod, methodPoolBody(methodEntry{id: 30, class: 20, name: 11, sig: 12}))
	cb.pool(typeStackTrace, stackTracePoolBody(stackTraceEntry{
		id:         40,
		methods:    []uint64{30, 999},
		frameTypes: []byte{0, 1},
	}))
	cb.pool(typeThread, threadPoolBody(threadEntry{id: 7, osName: "os", javaName: "main", hasJavaName: true}))

	r, err := OpenBytes(cb.build())
	require.NoError(t, err)

	res, err := NewResolver(r)
	require.NoError(t, err)

	return res
}

func TestResolver_Names(t *testing.T) {
	res := newResolverFixture(t)

	sym, ok := res.Symbol(10)
	require.True(t, ok)
	require.Equal(t, "java/lang/Object", sym)

	class, ok := res.ClassName(20)
	require.True(t, ok)
	require.Equal(t, "java.lang.Object", class)

	name, ok := res.ThreadName(7)
	require.True(t, ok)
	require.Equal(t, "main", name)
}

func TestResolver_MethodNameCached(t *testing.T) {
	res := newResolverFixture(t)

	name, ok := res.MethodName(30)
	require.True(t, ok)
	require.Equal(t, "java.lang.Object.wait", name)

	// Second lookup is served from the cache.
	name, ok = res.MethodName(30)
	require.True(t, ok)
	require.Equal(t, "java.lang.Object.wait", name)
}

func TestResolver_DanglingIDs(t *testing.T) {
	res := newResolverFixture(t)

	_, ok := res.MethodName(999)
	require.False(t, ok)

	_, ok = res.ClassName(999)
	require.False(t, ok)

	_, ok = res.StackFrames(999)
	require.False(t, ok)

	frames, ok := res.StackFrames(40)
	require.True(t, ok)
	require.Equal(t, []string{"java.lang.Object.wait", "[unknown]"}, frames)
}
