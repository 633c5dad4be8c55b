package ntake

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Mux is a Take that picks another Take based on gorilla/mux
// routes.  A request that matches nothing is a NotFound error and
// a request that matches a path but not a method is a
// MethodNotAllowed error, so a fallback can decide what to show.
type Mux struct {
	router *mux.Router
}

var _ Take = &Mux{}

func NewMux() *Mux {
	return &Mux{router: mux.NewRouter()}
}

// Handle registers take for path.  The returned *mux.Route can be
// refined with Methods(), Host(), Headers() and so on.
func (m *Mux) Handle(path string, take Take) *mux.Route {
	return m.router.Handle(path, takeHandler{take: take})
}

// Router returns the underlying router.  Routes added to it directly
// with other handlers are run by Act and their output becomes the
// response.  That is how StrictSlash redirects are answered.  A
// NotFoundHandler or MethodNotAllowedHandler set on the router is
// ignored by Act: those are NotFound and MethodNotAllowed errors.
func (m *Mux) Router() *mux.Router {
	return m.router
}

func (m *Mux) Act(r *http.Request) (Response, error) {
	var match mux.RouteMatch
	matched := m.router.Match(r, &match)
	switch {
	case errors.Is(match.MatchErr, mux.ErrMethodMismatch):
		return nil, MethodNotAllowed(errors.Errorf("method %s not allowed for %s", r.Method, r.URL.Path))
	case !matched || errors.Is(match.MatchErr, mux.ErrNotFound):
		return nil, NotFound(errors.Errorf("no route for %s %s", r.Method, r.URL.Path))
	}
	r = mux.SetURLVars(r, match.Vars)
	if th, ok := match.Handler.(takeHandler); ok {
		return th.take.Act(r)
	}
	return recorded(match.Handler, r), nil
}

// recorded runs a plain http.Handler and keeps what it wrote
func recorded(h http.Handler, r *http.Request) Response {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	head := []string{StatusLine(rec.Code)}
	header := rec.Header()
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range header[name] {
			head = append(head, name+": "+value)
		}
	}
	body := rec.Body.Bytes()
	return RsOf(
		func() ([]string, error) {
			return head, nil
		},
		func() (io.Reader, error) {
			return bytes.NewReader(body), nil
		})
}

type takeHandler struct {
	take Take
}

func (h takeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	Handler(h.take, NoLogger()).ServeHTTP(w, r)
}
