package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PageData holds the fields every page shares
type PageData struct {
	Title string
}

// Base wraps body in the site chrome. The htmx SSE extension keeps
// fragments marked with sse-swap in step with the server.
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := "Cybersnake"
		if data.Title != "" {
			title = data.Title + " | Cybersnake"
		}
		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>`+templ.EscapeString(title)+`</title>
<script src="https://unpkg.com/htmx.org@2.0.4"></script>
<script src="https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"></script>
</head>
<body>
<header><h1>Cybersnake</h1></header>
<main>
`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `
</main>
</body>
</html>
`)
		return err
	})
}
