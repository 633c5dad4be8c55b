package ntake_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/muir/nfallback/ntake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMux() *ntake.Mux {
	m := ntake.NewMux()
	m.Handle("/items/{id}", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsText(200, "item "+mux.Vars(r)["id"]), nil
	})).Methods("GET")
	return m
}

func TestMuxMatch(t *testing.T) {
	res, err := testMux().Act(httptest.NewRequest("GET", "/items/7", nil))
	require.NoError(t, err)
	assert.Equal(t, "item 7", readBody(t, res))
}

func TestMuxNotFound(t *testing.T) {
	_, err := testMux().Act(httptest.NewRequest("GET", "/other", nil))
	require.Error(t, err)
	assert.Equal(t, 404, ntake.GetReturnCode(err))
}

func TestMuxMethodNotAllowed(t *testing.T) {
	_, err := testMux().Act(httptest.NewRequest("POST", "/items/7", nil))
	require.Error(t, err)
	assert.Equal(t, 405, ntake.GetReturnCode(err))
}

func TestMuxRouterServesHTTP(t *testing.T) {
	ts := httptest.NewServer(testMux().Router())
	defer ts.Close()
	// nolint:noctx
	res, err := ts.Client().Get(ts.URL + "/items/3")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, 200, res.StatusCode)
}

func TestMuxStrictSlashRedirect(t *testing.T) {
	m := ntake.NewMux()
	m.Router().StrictSlash(true)
	m.Handle("/a/", ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		return ntake.RsText(200, "a"), nil
	}))
	res, err := m.Act(httptest.NewRequest("GET", "/a", nil))
	require.NoError(t, err)
	head, err := res.Head()
	require.NoError(t, err)
	code, header, err := ntake.ParseHead(head)
	require.NoError(t, err)
	assert.Equal(t, 301, code)
	assert.Equal(t, "/a/", header.Get("Location"))
}

func TestMuxIgnoresRouterNotFoundHandlers(t *testing.T) {
	m := testMux()
	m.Router().NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	m.Router().MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	_, err := m.Act(httptest.NewRequest("GET", "/other", nil))
	require.Error(t, err)
	assert.Equal(t, 404, ntake.GetReturnCode(err))

	_, err = m.Act(httptest.NewRequest("POST", "/items/7", nil))
	require.Error(t, err)
	assert.Equal(t, 405, ntake.GetReturnCode(err))
}

func TestMuxPlainHandler(t *testing.T) {
	m := ntake.NewMux()
	m.Router().HandleFunc("/plain/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-B", "2")
		w.Header().Set("X-A", "1")
		_, _ = w.Write([]byte("hi " + mux.Vars(r)["name"]))
	})
	res, err := m.Act(httptest.NewRequest("GET", "/plain/bob", nil))
	require.NoError(t, err)
	head, err := res.Head()
	require.NoError(t, err)
	assert.Equal(t, []string{"HTTP/1.1 200 OK", "Content-Type: text/plain; charset=utf-8", "X-A: 1", "X-B: 2"}, head)
	assert.Equal(t, "hi bob", readBody(t, res))
}
