package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/sizemap/pkg/cache"
	"github.com/matzehuels/sizemap/pkg/pipeline"
	"github.com/matzehuels/sizemap/pkg/session"
	"github.com/matzehuels/sizemap/pkg/treemap"
)

const sampleTree = `{
  "name": "root",
  "children": [
    {"name": "A", "children": [{"name": "a1", "size": 60}, {"name": "a2", "size": 40}]},
    {"name": "B", "size": 50}
  ]
}`

type fixture struct {
	t      *testing.T
	srv    *Server
	ts     *httptest.Server
	runner *pipeline.Runner
	store  session.Store
	hash   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := &fixture{t: t, runner: pipeline.NewRunner(c, nil, nil), store: session.NewMemoryStore()}
	f.srv = New(Config{Runner: f.runner, Store: f.store})
	f.ts = httptest.NewServer(f.srv.Handler())
	t.Cleanup(f.ts.Close)

	var tree treeResponse
	f.do(http.MethodPost, "/api/trees", sampleTree, http.StatusCreated, &tree)
	f.hash = tree.Hash
	return f
}

// do sends a request and decodes a JSON response into out when out is not nil.
func (f *fixture) do(method, path, body string, wantStatus int, out any) []byte {
	f.t.Helper()
	req, err := http.NewRequest(method, f.ts.URL+path, strings.NewReader(body))
	if err != nil {
		f.t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		f.t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		f.t.Fatalf("%s %s = %d, want %d: %s", method, path, resp.StatusCode, wantStatus, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			f.t.Fatalf("decode %s: %v", data, err)
		}
	}
	return data
}

func (f *fixture) open(addr string) string {
	f.t.Helper()
	var resp sessionResponse
	body, _ := json.Marshal(openRequest{Tree: f.hash, Width: 150, Height: 100, Address: addr})
	f.do(http.MethodPost, "/api/sessions", string(body), http.StatusCreated, &resp)
	return resp.ID
}

type frameBody struct {
	Address string         `json:"address"`
	Stats   treemap.Stats  `json:"stats"`
	Items   []treemap.Item `json:"items"`
}

func (f *fixture) idOf(sid, label string) int {
	f.t.Helper()
	var fr frameBody
	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame", "", http.StatusOK, &fr)
	for _, it := range fr.Items {
		if it.Label == label {
			return it.ID
		}
	}
	f.t.Fatalf("no item %q in frame", label)
	return 0
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	var body map[string]any
	f.do(http.MethodGet, "/healthz", "", http.StatusOK, &body)
	if body["status"] != "ok" {
		t.Errorf("health = %v", body)
	}
}

func TestIndexPage(t *testing.T) {
	f := newFixture(t)
	data := f.do(http.MethodGet, "/", "", http.StatusOK, nil)
	if !bytes.Contains(data, []byte("/api/sessions")) {
		t.Error("index page should drive the session API")
	}
	if bytes.Contains(data, []byte("decodeURIComponent(location.hash)")) {
		t.Error("index page must send the location hash without decoding it")
	}
}

func TestUploadRejectsInvalidTree(t *testing.T) {
	f := newFixture(t)
	var e errorBody
	f.do(http.MethodPost, "/api/trees", `{"name":"x","size":-5}`, http.StatusBadRequest, &e)
	if e.Code != "INVALID_TREE" {
		t.Errorf("code = %s", e.Code)
	}
	f.do(http.MethodPost, "/api/trees", `not json`, http.StatusBadRequest, nil)
}

func TestOpenSession(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		address string
		want    string
	}{
		{"no address", "", ""},
		{"valid address", "#root#A", "#root#A"},
		{"unresolvable address", "#root#nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp sessionResponse
			body, _ := json.Marshal(openRequest{Tree: f.hash, Width: 150, Height: 100, Address: tt.address})
			f.do(http.MethodPost, "/api/sessions", string(body), http.StatusCreated, &resp)
			if resp.Address != tt.want {
				t.Errorf("address = %q, want %q", resp.Address, tt.want)
			}
			if !session.ValidID(resp.ID) {
				t.Errorf("id %q is not a session id", resp.ID)
			}
		})
	}
}

func TestOpenSessionErrors(t *testing.T) {
	f := newFixture(t)
	f.do(http.MethodPost, "/api/sessions", `{"tree":"unknown","width":10,"height":10}`, http.StatusNotFound, nil)
	f.do(http.MethodPost, "/api/sessions", `{"tree":"`+f.hash+`","width":-1,"height":10}`, http.StatusBadRequest, nil)
	f.do(http.MethodPost, "/api/sessions", `{`, http.StatusBadRequest, nil)
}

func TestFrame(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")

	var fr frameBody
	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame", "", http.StatusOK, &fr)
	if len(fr.Items) != 5 {
		t.Fatalf("items = %d, want 5", len(fr.Items))
	}
	for _, it := range fr.Items {
		if it.Label == "B" && (it.X != 0 || it.Y != 20 || it.Width != 49 || it.Height != 80) {
			t.Errorf("B = %+v, want (0,20) 49x80", it)
		}
	}

	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame", "", http.StatusOK, &fr)
	if fr.Stats.Passes != 1 || fr.Stats.MemoHits == 0 {
		t.Errorf("unchanged frame should be memoized, stats = %+v", fr.Stats)
	}

	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame?width=300", "", http.StatusOK, &fr)
	if fr.Stats.Passes != 2 {
		t.Errorf("resize should relayout, stats = %+v", fr.Stats)
	}
	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame?width=abc", "", http.StatusBadRequest, nil)
}

func TestActivateToggles(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	a := f.idOf(sid, "A")

	var z zoomResponse
	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/"+strconv.Itoa(a), "", http.StatusOK, &z)
	if !z.Changed || z.Address != "#root#A" {
		t.Errorf("first activate = %+v", z)
	}

	var addr addressBody
	f.do(http.MethodGet, "/api/sessions/"+sid+"/address", "", http.StatusOK, &addr)
	if addr.Address != "#root#A" {
		t.Errorf("address = %q", addr.Address)
	}

	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/"+strconv.Itoa(a), "", http.StatusOK, &z)
	if !z.Changed || z.Address != "" {
		t.Errorf("second activate = %+v", z)
	}

	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/999999", "", http.StatusOK, &z)
	if z.Changed {
		t.Error("unknown id should be ignored")
	}
	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/x", "", http.StatusBadRequest, nil)
}

func TestZoomOutAndUnzoom(t *testing.T) {
	f := newFixture(t)
	sid := f.open("#root#A#a1")

	var z zoomResponse
	f.do(http.MethodPost, "/api/sessions/"+sid+"/zoomout", "", http.StatusOK, &z)
	if z.Address != "#root#A" {
		t.Errorf("zoomout address = %q", z.Address)
	}
	f.do(http.MethodPost, "/api/sessions/"+sid+"/unzoom", "", http.StatusOK, &z)
	if !z.Changed || z.Address != "" {
		t.Errorf("unzoom = %+v", z)
	}
	f.do(http.MethodPost, "/api/sessions/"+sid+"/unzoom", "", http.StatusOK, &z)
	if z.Changed {
		t.Error("unzoom without scope should not change")
	}
}

func TestHoverAndPointer(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	b := f.idOf(sid, "B")

	var h hoverResponse
	f.do(http.MethodPost, "/api/sessions/"+sid+"/pointer/enter", "", http.StatusOK, &h)
	f.do(http.MethodPost, "/api/sessions/"+sid+"/hover/"+strconv.Itoa(b), "", http.StatusOK, &h)
	if !h.Visible || h.Name != "B" || h.Path != "#root#B" {
		t.Errorf("hover = %+v", h)
	}
	if h.Percent != "33.33%" {
		t.Errorf("percent = %q, want 33.33%%", h.Percent)
	}

	var addr addressBody
	f.do(http.MethodGet, "/api/sessions/"+sid+"/address", "", http.StatusOK, &addr)
	if addr.Address != "" {
		t.Error("hover must not zoom")
	}

	f.do(http.MethodPost, "/api/sessions/"+sid+"/pointer/leave", "", http.StatusOK, &h)
	if h.Visible {
		t.Error("tooltip should hide on leave")
	}
	f.do(http.MethodPost, "/api/sessions/"+sid+"/pointer/sideways", "", http.StatusBadRequest, nil)
}

func TestPutAddress(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")

	var addr addressBody
	f.do(http.MethodPut, "/api/sessions/"+sid+"/address", `{"address":"#root#A"}`, http.StatusOK, &addr)
	if addr.Address != "#root#A" {
		t.Errorf("address = %q", addr.Address)
	}
	f.do(http.MethodPut, "/api/sessions/"+sid+"/address", `{"address":"#root#missing"}`, http.StatusOK, &addr)
	if addr.Address != "" {
		t.Errorf("unresolvable address should show the whole tree, got %q", addr.Address)
	}

	f.do(http.MethodPut, "/api/sessions/"+sid+"/address", `{"address":"#root#A"}`, http.StatusOK, &addr)
	f.do(http.MethodPut, "/api/sessions/"+sid+"/address", `{"address":"#root#A\u0000"}`, http.StatusOK, &addr)
	if addr.Address != "" {
		t.Errorf("malformed address should show the whole tree, got %q", addr.Address)
	}
}

func TestPutEscapedAddress(t *testing.T) {
	f := newFixture(t)
	var tree treeResponse
	f.do(http.MethodPost, "/api/trees",
		`{"name":"root","children":[{"name":"a#b","size":3},{"name":"c","size":1}]}`,
		http.StatusCreated, &tree)
	body, _ := json.Marshal(openRequest{Tree: tree.Hash, Width: 150, Height: 100})
	var sess sessionResponse
	f.do(http.MethodPost, "/api/sessions", string(body), http.StatusCreated, &sess)

	var addr addressBody
	f.do(http.MethodPut, "/api/sessions/"+sess.ID+"/address", `{"address":"#root#a%23b"}`, http.StatusOK, &addr)
	if addr.Address != "#root#a%23b" {
		t.Errorf("address = %q, want %q", addr.Address, "#root#a%23b")
	}
}

func TestHoverDoesNotRelayout(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	a := f.idOf(sid, "A")
	b := f.idOf(sid, "B")
	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/"+strconv.Itoa(a), "", http.StatusOK, nil)

	var h hoverResponse
	f.do(http.MethodPost, "/api/sessions/"+sid+"/pointer/enter", "", http.StatusOK, &h)
	f.do(http.MethodPost, "/api/sessions/"+sid+"/hover/"+strconv.Itoa(b), "", http.StatusOK, &h)
	if !h.Visible || h.Name != "B" {
		t.Errorf("hover = %+v, want B from the drawn frame", h)
	}

	var fr frameBody
	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame", "", http.StatusOK, &fr)
	if fr.Stats.Passes != 2 {
		t.Errorf("stats = %+v, want the zoomed frame as the second pass", fr.Stats)
	}
}

func TestSVG(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	data := f.do(http.MethodGet, "/api/sessions/"+sid+"/svg?width=200&height=120", "", http.StatusOK, nil)
	if !bytes.HasPrefix(data, []byte("<svg")) || !bytes.Contains(data, []byte("data-id")) {
		t.Errorf("svg = %.100s", data)
	}
}

func TestOutlineDOT(t *testing.T) {
	f := newFixture(t)
	sid := f.open("#root#A")
	data := f.do(http.MethodGet, "/api/sessions/"+sid+"/outline?format=dot", "", http.StatusOK, nil)
	if !bytes.HasPrefix(data, []byte("digraph")) || !bytes.Contains(data, []byte("a2")) {
		t.Errorf("outline = %s", data)
	}
	f.do(http.MethodGet, "/api/sessions/"+sid+"/outline?format=gif", "", http.StatusBadRequest, nil)
	f.do(http.MethodGet, "/api/sessions/"+sid+"/outline?format=dot&depth=-1", "", http.StatusBadRequest, nil)
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	var e errorBody
	f.do(http.MethodGet, "/api/sessions/6ba7b810-9dad-11d1-80b4-00c04fd430c8/frame", "", http.StatusNotFound, &e)
	if e.Code != "SESSION_NOT_FOUND" {
		t.Errorf("code = %s", e.Code)
	}
	f.do(http.MethodGet, "/api/sessions/not-a-uuid/frame", "", http.StatusNotFound, nil)
}

func TestCloseSession(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	f.do(http.MethodDelete, "/api/sessions/"+sid, "", http.StatusNoContent, nil)
	f.do(http.MethodGet, "/api/sessions/"+sid+"/frame", "", http.StatusNotFound, nil)
	if f.srv.Viewers() != 0 {
		t.Errorf("viewers = %d after close", f.srv.Viewers())
	}
}

func TestSessionRestoredAfterRestart(t *testing.T) {
	f := newFixture(t)
	sid := f.open("")
	a := f.idOf(sid, "A")
	f.do(http.MethodPost, "/api/sessions/"+sid+"/activate/"+strconv.Itoa(a), "", http.StatusOK, nil)

	restarted := New(Config{Runner: f.runner, Store: f.store})
	ts := httptest.NewServer(restarted.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/sessions/" + sid + "/address")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var addr addressBody
	json.NewDecoder(resp.Body).Decode(&addr)
	if resp.StatusCode != http.StatusOK || addr.Address != "#root#A" {
		t.Errorf("restored address = %q (status %d)", addr.Address, resp.StatusCode)
	}
}

func TestRenderEndpoint(t *testing.T) {
	f := newFixture(t)
	path := "/api/render?tree=" + f.hash + "&format=json&width=150&height=100&address=%23root%23A"

	req, _ := http.NewRequest(http.MethodGet, f.ts.URL+path, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Sizemap-Address"); got != "#root#A" {
		t.Errorf("address header = %q", got)
	}
	if got := resp.Header.Get("X-Sizemap-Cache"); got != "miss" {
		t.Errorf("first render cache = %q, want miss", got)
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Sizemap-Cache"); got != "hit" {
		t.Errorf("second render cache = %q, want hit", got)
	}

	f.do(http.MethodGet, "/api/render?tree="+f.hash+"&format=bmp", "", http.StatusBadRequest, nil)
	f.do(http.MethodGet, "/api/render?tree=missing", "", http.StatusNotFound, nil)
}

func TestStatusFor(t *testing.T) {
	if statusFor(io.EOF) != http.StatusInternalServerError {
		t.Error("plain errors should map to 500")
	}
}
