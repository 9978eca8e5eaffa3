package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/cybersnake/internal/middleware"
)

// PanicPage answers a recovered panic with an HTML error page that shows
// the request id
func PanicPage(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error | Cybersnake</title></head>
<body>
<h1>Internal Server Error</h1>
<p>The leaderboard could not be shown. Please try again later.</p>
<p>Reference: <code>` + templ.EscapeString(middleware.RequestIDFromContext(r.Context())) + `</code></p>
<p><a href="/">Return to the leaderboard</a></p>
</body>
</html>`))
}
