package bio

import (
	"encoding/json"

	"github.com/joeycumines/go-utilpkg/jsonenc"

	"github.com/spiretrading/beam-sub006/beamerr"
)

// JSONMessage is a minimal structured payload used to demonstrate an
// external serializer layered over SizeDeclarative framing, per
// spec.md §7's "propagated from an external serializer" collaborator.
// JSONWriter and JSONReader expose WriteMessage/ReadMessage rather than the
// bio Writer/Reader contracts, so they are not themselves WrapperChannel
// components.
type JSONMessage struct {
	Name  string
	Value float64
}

// JSONWriter encodes JSONMessage values as length-prefixed JSON frames.
// Field encoding uses jsonenc.AppendString/AppendFloat64 directly rather
// than encoding/json.Marshal, avoiding a reflection-based encode on the
// hot path the same way the reference's own JSON-producing loggers do.
type JSONWriter struct {
	frames *SizeDeclarativeWriter
}

func NewJSONWriter(target Writer) *JSONWriter {
	return &JSONWriter{frames: NewSizeDeclarativeWriter(target)}
}

func (w *JSONWriter) WriteMessage(msg JSONMessage) error {
	buf := make([]byte, 0, 64)
	buf = append(buf, `{"name":`...)
	buf = jsonenc.AppendString(buf, msg.Name)
	buf = append(buf, `,"value":`...)
	buf = jsonenc.AppendFloat64(buf, msg.Value)
	buf = append(buf, '}')
	return w.frames.WriteFrame(buf)
}

// JSONReader decodes length-prefixed JSON frames back into JSONMessage
// values. jsonenc exposes only append-style encoders, no decoder, so
// decoding falls back to encoding/json.Unmarshal; a malformed frame is
// reported as beamerr.SerializationError rather than the raw
// json.SyntaxError, so callers across a queue/publisher boundary see a
// taxonomy error regardless of which codec produced it.
type JSONReader struct {
	frames *SizeDeclarativeReader
}

func NewJSONReader(source Reader) *JSONReader {
	return &JSONReader{frames: NewSizeDeclarativeReader(source)}
}

func (r *JSONReader) ReadMessage() (JSONMessage, error) {
	payload, err := r.frames.ReadFrame()
	if err != nil {
		return JSONMessage{}, err
	}
	var msg JSONMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return JSONMessage{}, &beamerr.SerializationError{Cause: err}
	}
	return msg, nil
}
