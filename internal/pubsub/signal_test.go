package pubsub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignal_FiresInConnectionOrder(t *testing.T) {
	s := NewSignal[int]()
	var got []string

	s.Connect(func(v int) { got = append(got, "a") })
	s.Connect(func(v int) { got = append(got, "b") })
	s.Fire(1)

	require.Equal(t, []string{"a", "b"}, got)
	require.Equal(t, 2, s.ListenerCount())
}

func TestSignal_DisconnectIsIdempotent(t *testing.T) {
	s := NewSignal[int]()
	calls := 0
	conn := s.Connect(func(int) { calls++ })

	conn.Disconnect()
	conn.Disconnect()
	s.Fire(1)

	require.Equal(t, 0, calls)
	require.Equal(t, 0, s.ListenerCount())
}

func TestSignal_NilConnectionDisconnect(t *testing.T) {
	var conn *Connection
	require.NotPanics(t, conn.Disconnect)
}

func TestSignal_DisconnectDuringDispatchSkipsPendingHandler(t *testing.T) {
	s := NewSignal[int]()
	var second *Connection
	ran := false

	s.Connect(func(int) { second.Disconnect() })
	second = s.Connect(func(int) { ran = true })
	s.Fire(1)

	require.False(t, ran)
	require.Equal(t, 1, s.ListenerCount())
}

func TestSignal_ConnectDuringDispatchRunsNextFire(t *testing.T) {
	s := NewSignal[int]()
	calls := 0
	connected := false

	s.Connect(func(int) {
		if !connected {
			connected = true
			s.Connect(func(int) { calls++ })
		}
	})

	s.Fire(1)
	require.Equal(t, 0, calls)
	s.Fire(2)
	require.Equal(t, 1, calls)
}
