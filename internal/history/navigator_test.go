package history

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNavigator_Empty(t *testing.T) {
	n := NewNavigator(nil)
	require.Equal(t, "", n.Back())
	require.Equal(t, "", n.Forward())
	require.Equal(t, 0, n.Len())
	require.Equal(t, "", n.Last())
}

func TestNavigator_BackStopsAtOldest(t *testing.T) {
	n := NewNavigator([]string{"a", "b", "c"})
	require.Equal(t, "c", n.Back())
	require.Equal(t, "b", n.Back())
	require.Equal(t, "a", n.Back())
	require.Equal(t, "a", n.Back())
}

func TestNavigator_ForwardPastNewestIsEmpty(t *testing.T) {
	n := NewNavigator([]string{"a", "b"})
	n.Back()
	n.Back()
	require.Equal(t, "b", n.Forward())
	require.Equal(t, "", n.Forward())
	require.Equal(t, "", n.Forward())
	require.Equal(t, "b", n.Back())
}

func TestNavigator_PushResets(t *testing.T) {
	n := NewNavigator([]string{"a"})
	n.Back()
	n.Push("b")
	require.Equal(t, 2, n.Len())
	require.Equal(t, "b", n.Last())
	require.Equal(t, "b", n.Back())
}

func TestNavigator_CopiesInput(t *testing.T) {
	src := []string{"a", "b"}
	n := NewNavigator(src)
	src[1] = "changed"
	require.Equal(t, "b", n.Back())
}
