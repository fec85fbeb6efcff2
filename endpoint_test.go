package udp

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/membraneframework/membrane-element-udp/types"
)

func listenLoopback(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	return conn
}

func TestEndpointOpenRoundTrip(t *testing.T) {
	probe := listenLoopback(t)
	port := probe.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, probe.Close())

	cfg := &EndpointConfig{
		LocalAddress:   net.IPv4(127, 0, 0, 1),
		LocalPortNo:    port,
		RecvBufferSize: 4096,
	}
	ep, err := cfg.Open()
	require.NoError(t, err)

	client, err := net.DialUDP("udp", nil, ep.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.Write([]byte("ping"))
	require.NoError(t, err)

	buf := make([]byte, 4096)
	require.NoError(t, ep.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, addr, err := ep.Receive(buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf[:n]))
	require.Equal(t, client.LocalAddr().(*net.UDPAddr).Port, addr.Port)

	_, err = ep.Send([]byte("pong"), addr)
	require.NoError(t, err)

	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, err = client.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "pong", string(buf[:n]))

	require.NoError(t, ep.Close())
	require.NoError(t, ep.Close())
}

func TestEndpointBindErrorOnOccupiedPort(t *testing.T) {
	holder := listenLoopback(t)
	defer holder.Close()

	cfg := &EndpointConfig{
		LocalAddress: net.IPv4(127, 0, 0, 1),
		LocalPortNo:  holder.LocalAddr().(*net.UDPAddr).Port,
	}
	_, err := cfg.Open()
	require.Error(t, err)

	var bindErr *types.BindError
	require.ErrorAs(t, err, &bindErr)
	require.NotNil(t, bindErr.Err)
}

func TestEndpointTruncatesOversizedDatagram(t *testing.T) {
	ep := WrapEndpoint(listenLoopback(t))
	defer ep.Close()

	client, err := net.DialUDP("udp", nil, ep.LocalAddr().(*net.UDPAddr))
	require.NoError(t, err)
	defer client.Close()

	oversized := make([]byte, 64)
	for i := range oversized {
		oversized[i] = byte('a' + i%26)
	}
	_, err = client.Write(oversized)
	require.NoError(t, err)

	// The clipped payload arrives without an error.
	buf := make([]byte, 16)
	require.NoError(t, ep.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := ep.Receive(buf)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, oversized[:16], buf[:n])
}

func TestEndpointSendMissingAddr(t *testing.T) {
	ep := WrapEndpoint(listenLoopback(t))
	defer ep.Close()

	_, err := ep.Send([]byte("nowhere"), nil)
	require.ErrorIs(t, err, types.ErrMissingAddr)
}
