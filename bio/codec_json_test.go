package bio_test

import (
	"io"
	"testing"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/bio"
	"github.com/stretchr/testify/require"
)

func TestJSONWriterReaderRoundTrip(t *testing.T) {
	pr, pw := io.Pipe()
	writer := bio.NewJSONWriter(&ioAdapter{w: pw})
	reader := bio.NewJSONReader(&ioAdapter{r: pr})

	go func() {
		require.NoError(t, writer.WriteMessage(bio.JSONMessage{Name: "temperature", Value: 21.5}))
		pw.Close()
	}()

	msg, err := reader.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "temperature", msg.Name)
	require.Equal(t, 21.5, msg.Value)
}

func TestJSONReaderRejectsMalformedFrame(t *testing.T) {
	pr, pw := io.Pipe()
	framer := bio.NewSizeDeclarativeWriter(&ioAdapter{w: pw})
	reader := bio.NewJSONReader(&ioAdapter{r: pr})

	go func() {
		require.NoError(t, framer.WriteFrame([]byte("not json")))
		pw.Close()
	}()

	_, err := reader.ReadMessage()
	var serErr *beamerr.SerializationError
	require.ErrorAs(t, err, &serErr)
}
