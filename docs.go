package acervo // import "github.com/CarlosBertoldo/acervo-educacional"

import (
	"bytes"
	"net/http"

	"github.com/alecthomas/template"

	"github.com/CarlosBertoldo/acervo-educacional/common"
	"github.com/CarlosBertoldo/acervo-educacional/user"
)

type endpoint struct {
	Method      string
	Path        string
	Description string
	Protected   bool
}

type section struct {
	Title     string
	Endpoints []endpoint
}

var docSections = []section{
	{Title: "Authentication", Endpoints: []endpoint{
		{Method: "POST", Path: AuthRoot + "login", Description: "Log in with email and password"},
		{Method: "GET", Path: AuthRoot + "verify", Description: "Verify a bearer token"},
		{Method: "GET", Path: AuthV1Root + "me", Description: "Current user from a bearer token"},
		{Method: "POST", Path: AuthV1Root + "validate", Description: "Verify a token passed in the body"},
	}},
	{Title: "Dashboard", Endpoints: []endpoint{
		{Method: "GET", Path: DashboardPath, Description: "Dashboard statistics, cached", Protected: true},
	}},
	{Title: "Courses", Endpoints: []endpoint{
		{Method: "GET", Path: CoursesRoot, Description: "Paginated course list (page, per_page, search)", Protected: true},
		{Method: "GET", Path: CoursesRoot + "/kanban", Description: "Courses grouped by status", Protected: true},
	}},
	{Title: "Users", Endpoints: []endpoint{
		{Method: "GET", Path: UsersRoot, Description: "Registered users", Protected: true},
	}},
	{Title: "System", Endpoints: []endpoint{
		{Method: "GET", Path: HealthPath, Description: "Service health and cache statistics"},
	}},
}

func newDocsHandler(version string) http.Handler {
	return &docs{version: version}
}

type docs struct {
	version string
}

func (d *docs) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := docsPage.Execute(&buf, map[string]interface{}{
		"Version":  d.version,
		"Sections": docSections,
		"Login":    user.SampleAdminEmail,
	})
	if err != nil {
		common.JSONStatusResponse(http.StatusInternalServerError, w, common.Message{Message: "error rendering docs"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta http-equiv="Content-Type" content="text/html; charset=utf-8" />
    <title>Acervo Educacional API</title>
    <style>
      body { font-family: Arial, sans-serif; margin: 0; background: #f5f5f5; }
      .container { max-width: 1000px; margin: 0 auto; background: white; padding: 40px; }
      h1 { color: #C12D00; border-bottom: 3px solid #C12D00; }
      h2 { color: #8FBF00; }
      .endpoint { background: #f8f9fa; padding: 12px; margin: 10px 0; border-left: 4px solid #8FBF00; }
      .method { color: white; background: #C12D00; padding: 4px 10px; font-weight: bold; }
      .method.GET { background: #8FBF00; }
      .lock { color: #666; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="container">
      <h1>Acervo Educacional API</h1>
      <p><strong>Version:</strong> {{.Version}}</p>
{{range .Sections}}      <h2>{{.Title}}</h2>
{{range .Endpoints}}      <div class="endpoint">
        <span class="method {{.Method}}">{{.Method}}</span> <strong>{{.Path}}</strong>{{if .Protected}} <span class="lock">Bearer token required</span>{{end}}
        <div>{{.Description}}</div>
      </div>
{{end}}{{end}}      <h2>Notes</h2>
      <ul>
        <li>Send the token from login as <code>Authorization: Bearer &lt;token&gt;</code>.</li>
        <li>Sample login: <code>{{.Login}}</code></li>
      </ul>
    </div>
  </body>
</html>
`))
