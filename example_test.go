package nfallback_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/muir/nfallback"
	"github.com/muir/nfallback/ntake"
	"github.com/pkg/errors"
)

// Example shows a Take whose failures are turned into error pages.
// Only the 404 has a custom page.  Everything else gets the generic
// text page.
func Example() {
	take := ntake.TakeFunc(func(r *http.Request) (ntake.Response, error) {
		switch r.URL.Path {
		case "/":
			return ntake.RsText(200, "home"), nil
		case "/secret":
			return nil, ntake.Forbidden(errors.New("not for you"))
		default:
			return nil, ntake.NotFound(errors.Errorf("nothing at %s", r.URL.Path))
		}
	})
	rt := nfallback.New(take, nfallback.Chain(
		nfallback.Status(http.StatusNotFound, nfallback.Fixed(ntake.RsText(404, "lost?"))),
		nfallback.Text(),
	), nfallback.WithClock(func() time.Time { return time.Time{} }))

	for _, path := range []string{"/", "/elsewhere", "/secret"} {
		w := httptest.NewRecorder()
		ntake.Handler(rt, ntake.NoLogger()).ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		fmt.Printf("%d %q\n", w.Code, w.Body.String())
	}

	// Output: 200 "home"
	// 404 "lost?"
	// 403 "403 Forbidden\n\n[GET /secret] failed in 0ms: not for you\n"
}

// ExampleRouter_Act shows that a failure reading the body of a
// response is recovered too.
func ExampleRouter_Act() {
	take := ntake.TakeFunc(func(*http.Request) (ntake.Response, error) {
		return ntake.RsOf(
			ntake.RsText(200, "unused").Head,
			func() (io.Reader, error) {
				return nil, ntake.Errorf(http.StatusServiceUnavailable, "database is down")
			}), nil
	})
	rt := nfallback.New(take, nfallback.ResolverFunc(func(fc nfallback.Context) (ntake.Response, bool, error) {
		return ntake.RsText(fc.Code(), fmt.Sprintf("sorry (%d)", fc.Code())), true, nil
	}))

	res, err := rt.Act(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	head, _ := res.Head()
	body, _ := res.Body()
	b, _ := io.ReadAll(body)
	fmt.Println(head[0])
	fmt.Println(string(b))

	// Output: HTTP/1.1 200 OK
	// sorry (503)
}

// ExampleStatusOf shows how failures are classified
func ExampleStatusOf() {
	fmt.Println(nfallback.StatusOf(errors.New("plain")))
	fmt.Println(nfallback.StatusOf(errors.Wrap(ntake.NotFound(errors.New("gone")), "lookup")))

	// Output: 500
	// 404
}
