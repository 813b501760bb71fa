package tracker

import (
	"net/http"

	"github.com/adammck/maint/pkg/api"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc/codes"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	nodesPath   = "/v1/nodes"
	attrsPath   = "/v1/nodes/{node}/attributes"
	attrPath    = "/v1/nodes/{node}/attributes/{attr}"
	forbidPath  = "/v1/config/forbid_maintenance_attribute_writes"
	metricsPath = "/metrics"
)

// Handler returns the read-only HTTP API, plus metrics from g if it's not nil.
func (t *Tracker) Handler(g prometheus.Gatherer) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(nodesPath, t.listNodesHandler).Methods("GET")
	r.HandleFunc(attrsPath, t.attributesHandler).Methods("GET")
	r.HandleFunc(attrPath, t.attributeHandler).Methods("GET")
	r.HandleFunc(forbidPath, t.forbidLegacyHandler).Methods("GET")

	if g != nil {
		r.Handle(metricsPath, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	}

	return r
}

func (t *Tracker) listNodesHandler(w http.ResponseWriter, r *http.Request) {
	nodes, err := t.ListAttributes(r.URL.Query().Get("host"))
	if err != nil {
		t.writeError(w, err)
		return
	}

	t.writeJSON(w, http.StatusOK, nodes)
}

func (t *Tracker) attributesHandler(w http.ResponseWriter, r *http.Request) {
	attrs, err := t.Attributes(api.NodeID(mux.Vars(r)["node"]))
	if err != nil {
		t.writeError(w, err)
		return
	}

	t.writeJSON(w, http.StatusOK, attrs)
}

func (t *Tracker) attributeHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	v, err := t.Attribute(api.NodeID(vars["node"]), vars["attr"])
	if err != nil {
		t.writeError(w, err)
		return
	}

	t.writeJSON(w, http.StatusOK, v)
}

func (t *Tracker) forbidLegacyHandler(w http.ResponseWriter, r *http.Request) {
	t.writeJSON(w, http.StatusOK, t.ForbidLegacyWrites())
}

type errorResponse struct {
	Error string `json:"error"`
}

func (t *Tracker) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch Code(err) {
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	case codes.PermissionDenied:
		code = http.StatusForbidden
	}

	t.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (t *Tracker) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.log.WithError(err).Warn("error writing response")
	}
}
