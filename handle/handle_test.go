package handle_test

import (
	"testing"

	"github.com/db47h/tinyngine/handle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalid(t *testing.T) {
	var h handle.Handle
	assert.False(t, h.IsValid())
	assert.Equal(t, handle.Invalid, h)
	assert.Equal(t, "#invalid", h.String())

	tbl := handle.NewTable[string](4)
	_, ok := tbl.Get(h)
	assert.False(t, ok)
	_, ok = tbl.Remove(h)
	assert.False(t, ok)
	assert.Equal(t, 0, tbl.Len())
}

func TestTable_InsertGetRemove(t *testing.T) {
	tbl := handle.NewTable[string](4)
	h0, err := tbl.Insert("a")
	require.NoError(t, err)
	h1, err := tbl.Insert("b")
	require.NoError(t, err)

	assert.True(t, h0.IsValid())
	assert.Equal(t, uint32(0), h0.Index())
	assert.Equal(t, uint32(1), h1.Index())
	assert.Equal(t, "#1.1", h1.String())
	assert.Equal(t, 2, tbl.Len())

	v, ok := tbl.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "b", *v)

	*v = "B"
	v, _ = tbl.Get(h1)
	assert.Equal(t, "B", *v)

	got, ok := tbl.Remove(h0)
	require.True(t, ok)
	assert.Equal(t, "a", got)
	assert.Equal(t, 1, tbl.Len())
	assert.False(t, tbl.Contains(h0))

	_, ok = tbl.Remove(h0)
	assert.False(t, ok, "double remove")
}

func TestTable_StaleHandleAfterReuse(t *testing.T) {
	tbl := handle.NewTable[int](2)
	h, err := tbl.Insert(1)
	require.NoError(t, err)
	_, ok := tbl.Remove(h)
	require.True(t, ok)

	h2, err := tbl.Insert(2)
	require.NoError(t, err)
	assert.Equal(t, h.Index(), h2.Index(), "slot should be reused")
	assert.NotEqual(t, h.Generation(), h2.Generation())

	_, ok = tbl.Get(h)
	assert.False(t, ok, "stale handle must not resolve to the new value")
	v, ok := tbl.Get(h2)
	require.True(t, ok)
	assert.Equal(t, 2, *v)
}

func TestTable_Full(t *testing.T) {
	tbl := handle.NewTable[int](2)
	_, err := tbl.Insert(1)
	require.NoError(t, err)
	h, err := tbl.Insert(2)
	require.NoError(t, err)

	bad, err := tbl.Insert(3)
	assert.Equal(t, handle.ErrFull, err)
	assert.False(t, bad.IsValid())

	tbl.Remove(h)
	_, err = tbl.Insert(3)
	assert.NoError(t, err)
	assert.Equal(t, 2, tbl.Cap())
}

func TestTable_DefaultCapacity(t *testing.T) {
	assert.Equal(t, handle.DefaultCapacity, handle.NewTable[int](0).Cap())
}

func TestTable_OutOfRange(t *testing.T) {
	big := handle.NewTable[int](8)
	for i := 0; i < 8; i++ {
		_, err := big.Insert(i)
		require.NoError(t, err)
	}
	var last handle.Handle
	big.Each(func(h handle.Handle, _ *int) bool {
		last = h
		return true
	})

	small := handle.NewTable[int](1)
	_, ok := small.Get(last)
	assert.False(t, ok)
}

func TestTable_Each(t *testing.T) {
	tbl := handle.NewTable[int](8)
	var hs []handle.Handle
	for i := 0; i < 5; i++ {
		h, err := tbl.Insert(i)
		require.NoError(t, err)
		hs = append(hs, h)
	}
	tbl.Remove(hs[1])
	tbl.Remove(hs[3])

	var seen []int
	tbl.Each(func(h handle.Handle, v *int) bool {
		assert.True(t, tbl.Contains(h))
		seen = append(seen, *v)
		return true
	})
	assert.Equal(t, []int{0, 2, 4}, seen)

	seen = seen[:0]
	tbl.Each(func(_ handle.Handle, v *int) bool {
		seen = append(seen, *v)
		return false
	})
	assert.Equal(t, []int{0}, seen)
}
