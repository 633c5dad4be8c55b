package ntake_test

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/muir/nfallback/ntake"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type failingReader struct {
	data []byte
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func serve(take ntake.Take, logger ntake.BasicLogger) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ntake.Handler(take, logger).ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	return w
}

func TestHandlerSuccess(t *testing.T) {
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsWithHeader(ntake.RsText(201, "made"), "X-A", "b"), nil
	}), ntake.NoLogger())
	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "made", w.Body.String())
	assert.Equal(t, "b", w.Header().Get("X-A"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestHandlerTakeError(t *testing.T) {
	var buf bytes.Buffer
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return nil, ntake.Forbidden(errors.New("go away"))
	}), ntake.LoggerFromStd(log.New(&buf, "", 0)))
	assert.Equal(t, 403, w.Code)
	assert.Equal(t, "go away", w.Body.String())
	assert.Contains(t, buf.String(), "Cannot render response")
	assert.Contains(t, buf.String(), "method=GET")
	assert.Contains(t, buf.String(), "uri=/x")
}

func TestHandlerNoPartialBody(t *testing.T) {
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsOf(
			ntake.RsWithHeader(ntake.RsWithStatus(ntake.RsEmpty(), 200), "X-A", "b").Head,
			func() (io.Reader, error) {
				return &failingReader{data: []byte("half of it")}, nil
			}), nil
	}), ntake.NoLogger())
	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "half of it")
	assert.Contains(t, w.Body.String(), "connection reset")
	assert.Equal(t, "", w.Header().Get("X-A"), "headers of the abandoned response are dropped")
}

func TestHandlerBadHead(t *testing.T) {
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsOf(
			func() ([]string, error) { return []string{"nonsense"}, nil },
			ntake.RsEmpty().Body), nil
	}), ntake.NoLogger())
	assert.Equal(t, 500, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "invalid status line"), w.Body.String())
}

func TestHandlerPanic(t *testing.T) {
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		panic("oops")
	}), ntake.NoLogger())
	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "panic: oops", w.Body.String())
}

type panickingBody struct {
	closed bool
}

func (b *panickingBody) Read([]byte) (int, error) {
	panic("read exploded")
}

func (b *panickingBody) Close() error {
	b.closed = true
	return nil
}

func TestHandlerClosesBodyOnPanic(t *testing.T) {
	body := &panickingBody{}
	w := serve(ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsOf(
			ntake.RsText(200, "unused").Head,
			func() (io.Reader, error) { return body, nil }), nil
	}), ntake.NoLogger())
	assert.Equal(t, 500, w.Code)
	assert.Equal(t, "panic: read exploded", w.Body.String())
	assert.True(t, body.closed)
}
