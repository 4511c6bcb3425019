package authweb

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// The landing page explains the hand-off and carries a bookmarklet that, run
// on the NotebookLM tab, posts the session token and cookies back here.
var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>nlm credential hand-off</title></head>
<body>
<h1>nlm credential hand-off</h1>
<ol>
<li>Open <a href="https://notebooklm.google.com" target="_blank">NotebookLM</a> and sign in.</li>
<li>Drag this link to your bookmarks bar: <a href="{{.Bookmarklet}}">Send to nlm</a></li>
<li>On the NotebookLM tab, click the bookmark. This page's server stores the credentials locally.</li>
</ol>
<p>The hand-off is guarded by a one-time key baked into the bookmarklet. Stop the server once done.</p>
</body>
</html>
`))

const bookmarkletJS = `javascript:(function(){` +
	`var t=(window.WIZ_global_data&&window.WIZ_global_data.SNlM0e)||'';` +
	`fetch('{{origin}}/v1/credentials',{method:'POST',headers:{'Content-Type':'application/json'},` +
	`body:JSON.stringify({key:'{{key}}',auth_token:t,cookies:document.cookie})})` +
	`.then(function(r){alert(r.ok?'nlm: credentials stored':'nlm: hand-off failed ('+r.status+')');});` +
	`})();`

func (s *Server) handleIndex(c *gin.Context) {
	origin := "http://" + c.Request.Host
	js := strings.NewReplacer(
		"{{origin}}", origin,
		"{{key}}", s.handoffKey,
	).Replace(bookmarkletJS)
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(c.Writer, struct {
		Bookmarklet template.URL
	}{Bookmarklet: template.URL(js)}); err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
