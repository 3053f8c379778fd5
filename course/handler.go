package course // import "github.com/CarlosBertoldo/acervo-educacional/course"

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/CarlosBertoldo/acervo-educacional/common"
)

// Options are course API handler options
type Options struct {
	Root    string
	Catalog *Catalog
}

// RegisterAPI returns a router for the api.
func RegisterAPI(opts Options) *mux.Router {
	a := &handler{opts: opts}
	root := strings.TrimSuffix(opts.Root, "/")
	mx := mux.NewRouter()
	mx.Path(root).HandlerFunc(a.handleList).Methods("GET")
	mx.Path(root + "/").HandlerFunc(a.handleList).Methods("GET")
	mx.Path(root + "/kanban").HandlerFunc(a.handleKanban).Methods("GET")
	return mx
}

type handler struct {
	opts Options
}

type listResponse struct {
	Data       []Details  `json:"data"`
	Pagination Pagination `json:"pagination"`
	Search     string     `json:"search"`
}

func (a *handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	data, p := Paginate(a.opts.Catalog.Search(search), intParam(q.Get("page"), 1), intParam(q.Get("per_page"), DefaultPerPage))
	common.JSONResponse(w, &listResponse{Data: data, Pagination: p, Search: search})
}

func (a *handler) handleKanban(w http.ResponseWriter, r *http.Request) {
	common.JSONResponse(w, a.opts.Catalog.Kanban())
}

// intParam parses s, falling back to def when s is not an integer.
func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
