package ntake

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Handler serves take over HTTP.  The whole response, head and body,
// is read before anything is sent.  If any part of producing the
// response fails, nothing from the partial response is sent:
// the client instead gets the error text with the status code from
// GetReturnCode.
func Handler(take Take, log BasicLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dw := NewDeferredWriter(w)
		err := render(dw, take, r, log)
		if err != nil {
			dw.Reset()
			dw.Header().Set("Content-Type", "text/plain; charset=utf-8")
			dw.WriteHeader(GetReturnCode(err))
			_, _ = dw.Write([]byte(err.Error()))
			log.Error("Cannot render response",
				map[string]interface{}{
					"error":  err.Error(),
					"method": r.Method,
					"uri":    r.URL.String(),
				})
		}
		err = dw.Flush()
		if err != nil {
			log.Warn("Cannot write response",
				map[string]interface{}{
					"error":  err.Error(),
					"method": r.Method,
					"uri":    r.URL.String(),
				})
		}
	})
}

func render(w *DeferredWriter, take Take, r *http.Request, log BasicLogger) (err error) {
	defer SetErrorOnPanic(&err, log)
	res, err := take.Act(r)
	if err != nil {
		return err
	}
	head, err := res.Head()
	if err != nil {
		return err
	}
	code, header, err := ParseHead(head)
	if err != nil {
		return err
	}
	for k, v := range header {
		w.Header()[k] = append(w.Header()[k], v...)
	}
	w.WriteHeader(code)
	body, err := res.Body()
	if err != nil {
		return err
	}
	if closer, ok := body.(io.Closer); ok {
		defer func() {
			err = multierr.Append(err, closer.Close())
		}()
	}
	_, err = io.Copy(w, body)
	return errors.Wrap(err, "read response body")
}
