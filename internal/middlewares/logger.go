package middlewares

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const redacted = "REDACTED"

// RequestLogger is chi's access log with the values of the given query
// parameters masked. Handlers downstream still see the original request.
func RequestLogger(logger middleware.LoggerInterface, params ...string) func(http.Handler) http.Handler {
	return middleware.RequestLogger(redactingFormatter{
		next:   &middleware.DefaultLogFormatter{Logger: logger, NoColor: true},
		params: params,
	})
}

type redactingFormatter struct {
	next   middleware.LogFormatter
	params []string
}

func (f redactingFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return f.next.NewLogEntry(redactQuery(r, f.params))
}

func redactQuery(r *http.Request, params []string) *http.Request {
	if r.URL == nil || r.URL.RawQuery == "" {
		return r
	}
	q := r.URL.Query()
	changed := false
	for _, p := range params {
		if _, ok := q[p]; ok {
			q.Set(p, redacted)
			changed = true
		}
	}
	if !changed {
		return r
	}

	u := *r.URL
	u.RawQuery = q.Encode()
	out := r.Clone(r.Context())
	out.URL = &u
	out.RequestURI = u.RequestURI()
	return out
}
