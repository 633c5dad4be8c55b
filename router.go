package nfallback

import (
	"io"
	"net/http"
	"time"

	"github.com/muir/nfallback/ntake"
)

// Router is a Take that sends failures of another Take to a Resolver.
// It has no mutable state and can be used concurrently.
type Router struct {
	take     ntake.Take
	resolver Resolver
	name     string
	log      ntake.BasicLogger
	clock    func() time.Time
	metrics  *Metrics
}

var _ ntake.Take = &Router{}

// Option configures a Router
type Option func(*Router)

// WithLogger sets where recoveries and escalations are logged.  The
// default is to discard.
func WithLogger(log ntake.BasicLogger) Option {
	return func(rt *Router) {
		rt.log = log
	}
}

// WithClock replaces time.Now for measuring how long a request
// took before it failed.
func WithClock(clock func() time.Time) Option {
	return func(rt *Router) {
		rt.clock = clock
	}
}

// WithMetrics counts recoveries and escalations
func WithMetrics(m *Metrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

// New wraps take so that its failures are handed to resolver.
func New(take ntake.Take, resolver Resolver, opts ...Option) *Router {
	rt := &Router{
		take:     take,
		resolver: resolver,
		name:     typeName(resolver),
		log:      ntake.NoLogger(),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Act runs the wrapped Take.  If it fails, the Resolver gets a
// chance to provide a response.  Whatever response is returned,
// failures reading its head or body later go to the Resolver too.
func (rt *Router) Act(r *http.Request) (ntake.Response, error) {
	start := rt.clock()
	res, err := rt.act(r)
	if err == nil {
		return rt.wrap(res, r), nil
	}
	failure := Classify(err)
	fc := rt.context(r, start, failure)
	fb, ok, rerr := rt.route(fc)
	if rerr != nil || !ok {
		return nil, rt.escalate(Stage, fc, failure, rerr)
	}
	rt.recovered(Stage, fc)
	return rt.wrap(fb, r), nil
}

func (rt *Router) act(r *http.Request) (res ntake.Response, err error) {
	defer ntake.SetErrorOnPanic(&err, rt.log)
	res, err = rt.take.Act(r)
	if err == nil && res == nil {
		err = ntake.Errorf(http.StatusInternalServerError, "%T returned neither a response nor an error", rt.take)
	}
	return res, err
}

func (rt *Router) route(fc Context) (res ntake.Response, ok bool, err error) {
	defer ntake.SetErrorOnPanic(&err, rt.log)
	res, ok, err = rt.resolver.Route(fc)
	if err == nil && ok && res == nil {
		ok = false
	}
	return res, ok, err
}

func (rt *Router) context(r *http.Request, start time.Time, failure Failure) Context {
	return NewContext(r, failure.Code(), Describe(failure.Unwrap(), r, rt.clock().Sub(start)))
}

// wrap defers reading the head and body of res.  Each is recovered
// on its own, every time it is read.
func (rt *Router) wrap(res ntake.Response, r *http.Request) ntake.Response {
	return ntake.RsOf(
		func() ([]string, error) {
			return access(rt, Head, r, res, ntake.Response.Head)
		},
		func() (io.Reader, error) {
			return access(rt, Body, r, res, ntake.Response.Body)
		})
}

func access[T any](rt *Router, point Point, r *http.Request, res ntake.Response, read func(ntake.Response) (T, error)) (T, error) {
	start := rt.clock()
	v, err := guarded(rt.log, res, read)
	if err == nil {
		return v, nil
	}
	failure := Classify(err)
	fc := rt.context(r, start, failure)
	fb, ok, rerr := rt.route(fc)
	if rerr == nil && ok {
		v, rerr = guarded(rt.log, fb, read)
		if rerr == nil {
			rt.recovered(point, fc)
			return v, nil
		}
	}
	var zero T
	return zero, rt.escalate(point, fc, failure, rerr)
}

func guarded[T any](log ntake.BasicLogger, res ntake.Response, read func(ntake.Response) (T, error)) (v T, err error) {
	defer ntake.SetErrorOnPanic(&err, log)
	return read(res)
}

func (rt *Router) recovered(point Point, fc Context) {
	rt.metrics.observe(point, outcomeRecovered, fc.Code())
	rt.log.Warn("Recovered with fallback", rt.fields(point, fc))
}

func (rt *Router) escalate(point Point, fc Context, failure Failure, recovery error) error {
	rt.metrics.observe(point, outcomeEscalated, fc.Code())
	err := &EscalationError{
		point:    point,
		resolver: rt.name,
		failure:  failure,
		cause:    fc.Cause(),
		recovery: recovery,
	}
	fields := rt.fields(point, fc)
	fields["error"] = err.Error()
	rt.log.Error("No fallback", fields)
	return err
}

func (rt *Router) fields(point Point, fc Context) map[string]interface{} {
	fields := map[string]interface{}{
		"point": point.String(),
		"code":  fc.Code(),
		"cause": fc.Cause().Error(),
	}
	if r := fc.Request(); r != nil {
		fields["method"] = r.Method
		fields["uri"] = href(r)
	}
	return fields
}
