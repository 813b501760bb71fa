package tracker

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/adammck/maint/pkg/api"
)

func (ts *TrackerSuite) get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func (ts *TrackerSuite) TestHTTPAttributes() {
	id := ts.add(api.NodeTarget("n1"), api.Ban, "x", "u1")
	h := ts.trk.Handler(ts.reg)

	rec := ts.get(h, "/v1/nodes/n1/attributes")
	ts.Equal(http.StatusOK, rec.Code)
	ts.Equal("application/json", rec.Header().Get("Content-Type"))

	var attrs api.NodeAttributes
	ts.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &attrs))
	ts.True(attrs.Banned)
	ts.Equal("h1", attrs.Host)
	ts.Equal("x", attrs.MaintenanceRequests[id.String()].Comment)

	rec = ts.get(h, "/v1/nodes/n1/attributes/banned")
	ts.Equal(http.StatusOK, rec.Code)
	ts.JSONEq("true", rec.Body.String())

	rec = ts.get(h, "/v1/nodes/n1/attributes/maintenance_requests")
	ts.Equal(http.StatusOK, rec.Code)
	ts.Contains(rec.Body.String(), id.String())
}

func (ts *TrackerSuite) TestHTTPNodes() {
	h := ts.trk.Handler(nil)

	var nodes []api.NodeAttributes
	rec := ts.get(h, "/v1/nodes?host=h1")
	ts.Equal(http.StatusOK, rec.Code)
	ts.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &nodes))
	ts.Len(nodes, 2)

	rec = ts.get(h, "/v1/config/forbid_maintenance_attribute_writes")
	ts.JSONEq("false", rec.Body.String())

	// No gatherer, no metrics.
	rec = ts.get(h, "/metrics")
	ts.Equal(http.StatusNotFound, rec.Code)
}

func (ts *TrackerSuite) TestHTTPErrors() {
	h := ts.trk.Handler(ts.reg)

	rec := ts.get(h, "/v1/nodes/n9/attributes")
	ts.Equal(http.StatusNotFound, rec.Code)
	ts.Contains(rec.Body.String(), "no such node")

	rec = ts.get(h, "/v1/nodes/n1/attributes/colour")
	ts.Equal(http.StatusBadRequest, rec.Code)

	rec = ts.get(h, "/v1/nodes?host=h9")
	ts.Equal(http.StatusNotFound, rec.Code)
}

func (ts *TrackerSuite) TestHTTPMetrics() {
	ts.add(api.NodeTarget("n1"), api.Ban, "", "")
	ts.deny("u")
	_, err := ts.trk.AddMaintenance(ts.ctx, api.NodeTarget("n1"), api.Ban, "", "u")
	ts.Error(err)

	rec := ts.get(ts.trk.Handler(ts.reg), "/metrics")
	ts.Equal(http.StatusOK, rec.Code)

	body := rec.Body.String()
	ts.True(strings.Contains(body, `maint_requests_active{kind="ban"} 1`), body)
	ts.True(strings.Contains(body, `maint_access_denied_total 1`), body)
}
