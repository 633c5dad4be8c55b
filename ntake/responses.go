package ntake

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// StatusLine formats an HTTP/1.1 status line for code
func StatusLine(code int) string {
	return fmt.Sprintf("HTTP/1.1 %d %s", code, http.StatusText(code))
}

// RsEmpty is a 204 response with no body
func RsEmpty() Response {
	return RsOf(
		func() ([]string, error) {
			return []string{StatusLine(http.StatusNoContent)}, nil
		},
		func() (io.Reader, error) {
			return bytes.NewReader(nil), nil
		})
}

// RsText is a plain text response
func RsText(code int, text string) Response {
	return RsWithType(
		RsWithBody(RsWithStatus(RsEmpty(), code), []byte(text)),
		"text/plain; charset=utf-8")
}

// RsWithStatus replaces the status line of res
func RsWithStatus(res Response, code int) Response {
	return RsOf(
		func() ([]string, error) {
			head, err := res.Head()
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(head)+1)
			out = append(out, StatusLine(code))
			if len(head) > 0 && strings.HasPrefix(head[0], "HTTP/") {
				head = head[1:]
			}
			return append(out, head...), nil
		},
		res.Body)
}

// RsWithHeader adds a header line.  It does not check for an existing
// header with the same name: if there is one, the response will
// have both.  Use RsWithoutHeader first to replace a header:
//
//	RsWithHeader(RsWithoutHeader(res, "Host"), "Host", "www.example.com")
func RsWithHeader(res Response, name, value string) Response {
	return RsWithRawHeader(res, name+": "+value)
}

// RsWithRawHeader is RsWithHeader for a pre-formatted "Name: Value" line
func RsWithRawHeader(res Response, header string) Response {
	return RsOf(
		func() ([]string, error) {
			head, err := res.Head()
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(head)+1)
			out = append(out, head...)
			return append(out, header), nil
		},
		res.Body)
}

// RsWithoutHeader drops every header line called name.  The
// comparison ignores case.
func RsWithoutHeader(res Response, name string) Response {
	return RsOf(
		func() ([]string, error) {
			head, err := res.Head()
			if err != nil {
				return nil, err
			}
			out := make([]string, 0, len(head))
			for i, line := range head {
				if i > 0 && strings.EqualFold(headerName(line), name) {
					continue
				}
				out = append(out, line)
			}
			return out, nil
		},
		res.Body)
}

// RsWithBody replaces the body and sets Content-Length
func RsWithBody(res Response, body []byte) Response {
	withLength := RsWithHeader(
		RsWithoutHeader(res, "Content-Length"),
		"Content-Length", strconv.Itoa(len(body)))
	return RsOf(
		withLength.Head,
		func() (io.Reader, error) {
			return bytes.NewReader(body), nil
		})
}

// RsWithType replaces the Content-Type header
func RsWithType(res Response, contentType string) Response {
	return RsWithHeader(RsWithoutHeader(res, "Content-Type"), "Content-Type", contentType)
}

func headerName(line string) string {
	i := strings.IndexByte(line, ':')
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[:i])
}

// ParseHead splits header lines into the status code and the headers
func ParseHead(head []string) (int, http.Header, error) {
	if len(head) == 0 {
		return 0, nil, errors.New("response head is empty")
	}
	fields := strings.Fields(head[0])
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0, nil, errors.Errorf("invalid status line %q", head[0])
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil || code < 100 || code > 999 {
		return 0, nil, errors.Errorf("invalid status code in %q", head[0])
	}
	header := make(http.Header)
	for _, line := range head[1:] {
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return 0, nil, errors.Errorf("invalid header line %q", line)
		}
		header.Add(strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:]))
	}
	return code, header, nil
}
