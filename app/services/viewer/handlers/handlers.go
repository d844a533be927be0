// Package handlers contains the full set of handler functions and routes
// supported by the viewer.
package handlers

import (
	"context"
	"html/template"
	"net/http"
	"os"

	"github.com/ardanlabs/blockledger/business/web/mid"
	"github.com/ardanlabs/blockledger/foundation/web"
	"go.uber.org/zap"
)

// UIMux constructs an http.Handler with all application routes defined.
func UIMux(build string, shutdown chan os.Signal, log *zap.SugaredLogger, feed *Feed) *web.App {
	app := web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Panics(),
		mid.Cors("*"),
	)

	h := handlers{build: build, feed: feed}
	app.Handle(http.MethodGet, "", "/", h.index)
	app.Handle(http.MethodGet, "v1", "/blocks", h.blocks)

	return app
}

type handlers struct {
	build string
	feed  *Feed
}

func (h handlers) index(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	data := struct {
		Build  string
		Blocks []Block
	}{
		Build:  h.build,
		Blocks: h.feed.Blocks(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return index.Execute(w, data)
}

func (h handlers) blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.feed.Blocks(), http.StatusOK)
}

var index = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="5">
<title>Block Viewer</title>
</head>
<body>
<h1>Blocks</h1>
<p>build {{.Build}}</p>
{{range .Blocks}}
<h3>#{{.Index}} {{.Hash}}</h3>
<p>previous {{.PreviousHash}} proof {{.Proof}}</p>
<ul>
{{range .Trans}}<li>{{.Sender}} &rarr; {{.Recipient}}: {{.Amount}}</li>
{{end}}</ul>
{{else}}
<p>No blocks seen yet.</p>
{{end}}
</body>
</html>
`))
