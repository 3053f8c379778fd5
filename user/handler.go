package user // import "github.com/CarlosBertoldo/acervo-educacional/user"

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/CarlosBertoldo/acervo-educacional/common"
)

// Options are user API handler options
type Options struct {
	Root  string
	Users *Registry
}

// RegisterAPI returns a router for the api.
func RegisterAPI(opts Options) *mux.Router {
	a := &handler{opts: opts}
	mx := mux.NewRouter()
	mx.Path(opts.Root).HandlerFunc(a.handleList).Methods("GET")
	if !strings.HasSuffix(opts.Root, "/") {
		mx.Path(opts.Root + "/").HandlerFunc(a.handleList).Methods("GET")
	}
	return mx
}

type handler struct {
	opts Options
}

func (a *handler) handleList(w http.ResponseWriter, r *http.Request) {
	users := a.opts.Users.List()
	list := make([]Public, 0, len(users))
	for i := range users {
		list = append(list, users[i].Public())
	}
	common.JSONResponse(w, list)
}
