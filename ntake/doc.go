// Stuff

/*

Package ntake provides the request-to-response contracts that
nfallback works with, plus the small pieces needed to use them
with net/http.

A Take turns an *http.Request into a Response.  A Response has two
independent accessors: Head returns the header lines (the first
line is the status line) and Body returns the content stream.
Either may fail and neither is evaluated until asked for.  RsOf
builds a Response from two functions.

The Rs* functions decorate responses: RsWithStatus, RsWithHeader,
RsWithoutHeader, RsWithBody, RsWithType.  They are lazy: the
underlying response is only consulted when the decorated accessor
is called.

NotFound, Forbidden, BadRequest, Unauthorized and ReturnCode
annotate an error so that it carries a specific HTTP status code.

Handler serves a Take over HTTP.  Output is collected in a
DeferredWriter so that a failure while reading the body is
reported as an error rather than as a truncated response.

CatchPanic turns panics in a Take into error returns.

Mux dispatches to other takes using gorilla/mux routes.

*/
package ntake
