package bio_test

import (
	"net"
	"testing"
	"time"

	"github.com/spiretrading/beam-sub006/bio"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, addr net.Addr) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	return conn
}

func TestTCPServerConnectionAcceptAndEcho(t *testing.T) {
	server, err := bio.NewTCPServerConnection("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	accepted := make(chan bio.Channel, 1)
	acceptErr := make(chan error, 1)
	go func() {
		ch, err := server.Accept()
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- ch
	}()

	client, err := bio.NewTCPChannel(dial(t, server.Addr()))
	require.NoError(t, err)
	defer client.Connection().Close()

	var serverSide bio.Channel
	select {
	case serverSide = <-accepted:
	case err := <-acceptErr:
		t.Fatalf("accept failed: %v", err)
	case <-time.After(time.Second):
		t.Fatal("accept never completed")
	}
	defer serverSide.Connection().Close()

	require.NoError(t, client.Writer().Write([]byte("ping")))
	buf := make([]byte, 4)
	require.NoError(t, bio.ReadExactSize(serverSide.Reader(), buf))
	require.Equal(t, "ping", string(buf))
}

func TestWrapperChannelOverridesReaderWriter(t *testing.T) {
	server, err := bio.NewTCPServerConnection("127.0.0.1:0")
	require.NoError(t, err)
	defer server.Close()

	accepted := make(chan bio.Channel, 1)
	go func() {
		ch, err := server.Accept()
		require.NoError(t, err)
		accepted <- ch
	}()

	client, err := bio.NewTCPChannel(dial(t, server.Addr()))
	require.NoError(t, err)
	defer client.Connection().Close()

	serverSide := <-accepted
	defer serverSide.Connection().Close()

	framedWriter := bio.NewSizeDeclarativeWriter(client.Writer())
	framedReader := bio.NewSizeDeclarativeReader(serverSide.Reader())
	wrapped := bio.NewWrapperChannel(client, nil, nil)
	require.Equal(t, client.Identifier(), wrapped.Identifier())

	require.NoError(t, framedWriter.WriteFrame([]byte("framed")))
	payload, err := framedReader.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, "framed", string(payload))
}
