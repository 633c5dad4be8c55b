package ntake

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// DeferredWriter is a http.ResponseWriter that holds everything
// written to it until Flush() is called.  Until then, the output
// can be abandoned with Reset().
type DeferredWriter struct {
	base        http.ResponseWriter
	passthrough bool
	header      http.Header
	buffer      []byte
	status      int
	resetHeader http.Header
}

var _ http.ResponseWriter = &DeferredWriter{}

// NewDeferredWriter wraps w.  The current headers of w are
// copied and the copy is what Header() returns until Flush().
func NewDeferredWriter(w http.ResponseWriter) *DeferredWriter {
	return &DeferredWriter{
		base:        w,
		header:      w.Header().Clone(),
		resetHeader: w.Header().Clone(),
		buffer:      make([]byte, 0, 4*1024),
	}
}

func (w *DeferredWriter) Header() http.Header {
	if w.passthrough {
		return w.base.Header()
	}
	return w.header
}

func (w *DeferredWriter) Write(b []byte) (int, error) {
	if w.passthrough {
		return w.base.Write(b)
	}
	w.buffer = append(w.buffer, b...)
	return len(b), nil
}

func (w *DeferredWriter) WriteHeader(statusCode int) {
	if w.passthrough {
		w.base.WriteHeader(statusCode)
		return
	}
	w.status = statusCode
}

// Reset throws away buffered output and restores the headers to
// what they were at creation or at the last PreserveHeader().  Reset
// does nothing after Flush().
func (w *DeferredWriter) Reset() {
	if w.passthrough {
		return
	}
	w.buffer = w.buffer[:0]
	w.status = 0
	w.header = w.resetHeader.Clone()
}

// PreserveHeader saves the current headers so that Reset() returns
// to them.
func (w *DeferredWriter) PreserveHeader() {
	w.resetHeader = w.header.Clone()
}

// UnderlyingWriter returns the http.ResponseWriter that was wrapped
func (w *DeferredWriter) UnderlyingWriter() http.ResponseWriter {
	return w.base
}

// Done is true once Flush() has been called.
func (w *DeferredWriter) Done() bool {
	return w.passthrough
}

// Flush sends the buffered headers, status, and body to the
// underlying writer.  After Flush, writes go directly through.
func (w *DeferredWriter) Flush() error {
	if w.passthrough {
		return nil
	}
	w.passthrough = true
	dst := w.base.Header()
	for k := range dst {
		if _, ok := w.header[k]; !ok {
			delete(dst, k)
		}
	}
	for k, v := range w.header {
		dst[k] = v
	}
	if w.status != 0 {
		w.base.WriteHeader(w.status)
	}
	for len(w.buffer) > 0 {
		n, err := w.base.Write(w.buffer)
		w.buffer = w.buffer[n:]
		if err != nil {
			if errors.Is(err, io.ErrShortWrite) && n > 0 {
				continue
			}
			return errors.Wrap(err, "flush deferred response")
		}
	}
	return nil
}
