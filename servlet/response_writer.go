package servlet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/bio"
)

// readerAdapter presents a bio.Reader as an io.Reader, translating
// beamerr.EndOfFile back to io.EOF so stdlib consumers (net/http's
// request parser) recognize end-of-stream.
type readerAdapter struct {
	reader bio.Reader
}

func (a *readerAdapter) Read(p []byte) (int, error) {
	n, err := a.reader.Read(p)
	if errors.Is(err, beamerr.EndOfFile) {
		return n, io.EOF
	}
	return n, err
}

// responseWriter implements http.ResponseWriter over a bio.Writer,
// buffering the full response and flushing it as one atomic Write, since
// bio's Writer contract (spec.md §4.6) is all-or-error with no partial
// write, unlike a raw TCP stream.
type responseWriter struct {
	writer      bio.Writer
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	wroteHeader bool
}

func newResponseWriter(w bio.Writer) *responseWriter {
	return &responseWriter{writer: w, header: make(http.Header), statusCode: http.StatusOK}
}

func (w *responseWriter) Header() http.Header { return w.header }

func (w *responseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(p)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.statusCode = statusCode
	w.wroteHeader = true
}

func (w *responseWriter) flush() error {
	w.header.Set("Content-Length", strconv.Itoa(w.body.Len()))
	var out bytes.Buffer
	fmt.Fprintf(&out, "HTTP/1.1 %d %s\r\n", w.statusCode, http.StatusText(w.statusCode))
	w.header.Write(&out)
	out.WriteString("\r\n")
	out.Write(w.body.Bytes())
	return w.writer.Write(out.Bytes())
}
