package server

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/oarkflow/json"

	"github.com/oarkflow/micromap/logger"
	"github.com/oarkflow/micromap/terms"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(Config{Addr: ":0"}, terms.NewTaxonomy("test"), logger.NewNullLogger())
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	return s
}

func postJSON(t *testing.T, s *Server, path string, body any) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestServer_Healthz(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServer_RegisterAndResolve(t *testing.T) {
	s := newTestServer(t)

	status := postJSON(t, s, "/concepts", map[string]string{
		"uri":            "urn:sct:38341003",
		"code":           "38341003",
		"displayName":    "Hypertension",
		"codeSystem":     "2.16.840.1.113883.6.96",
		"codeSystemName": "SNOMED-CT",
	})
	if status != 201 {
		t.Fatalf("expected 201 on register, got %d", status)
	}

	resp, err := s.App().Test(httptest.NewRequest("GET", "/concepts?uri=urn:sct:38341003", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 on resolve, got %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	var concept terms.Concept
	if err := json.Unmarshal(data, &concept); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if concept.DisplayName() != "Hypertension" {
		t.Errorf("unexpected concept %+v", concept)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/systems/2.16.840.1.113883.6.96/concepts/38341003", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("expected 200 on code resolve, got %d", resp.StatusCode)
	}
}

func TestServer_ResolveMiss(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.App().Test(httptest.NewRequest("GET", "/concepts?uri=urn:missing", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 for unknown concept, got %d", resp.StatusCode)
	}
}

func TestServer_RegisterRejectsMissingURI(t *testing.T) {
	s := newTestServer(t)
	status := postJSON(t, s, "/concepts", map[string]string{"code": "no-uri"})
	if status != 400 {
		t.Errorf("expected 400 for payload without uri, got %d", status)
	}
}

func TestServer_AnnotationConflict(t *testing.T) {
	s := newTestServer(t)
	postJSON(t, s, "/concepts", map[string]string{"uri": "urn:a"})

	if status := postJSON(t, s, "/concepts/annotations", map[string]string{
		"uri": "urn:a", "key": "note", "value": "first",
	}); status != 204 {
		t.Fatalf("expected 204 on first annotation, got %d", status)
	}

	// Second distinct key must surface the capacity violation as a conflict.
	if status := postJSON(t, s, "/concepts/annotations", map[string]string{
		"uri": "urn:a", "key": "source", "value": "x",
	}); status != 409 {
		t.Errorf("expected 409 on slot overflow, got %d", status)
	}

	if status := postJSON(t, s, "/concepts/annotations", map[string]string{
		"uri": "urn:missing", "key": "note", "value": "x",
	}); status != 404 {
		t.Errorf("expected 404 for unknown concept, got %d", status)
	}
}

func TestServer_TaxonomyLinks(t *testing.T) {
	s := newTestServer(t)
	postJSON(t, s, "/concepts", map[string]string{"uri": "urn:parent"})
	postJSON(t, s, "/concepts", map[string]string{"uri": "urn:child"})

	if status := postJSON(t, s, "/taxonomy/links", map[string]string{
		"child": "urn:child", "parent": "urn:parent",
	}); status != 204 {
		t.Fatalf("expected 204 on link, got %d", status)
	}

	resp, err := s.App().Test(httptest.NewRequest("GET", "/taxonomy/broader?uri=urn:child", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	var out struct {
		URIs []string `json:"uris"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(out.URIs) != 1 || out.URIs[0] != "urn:parent" {
		t.Errorf("unexpected broader set %v", out.URIs)
	}

	if status := postJSON(t, s, "/taxonomy/links", map[string]string{
		"child": "urn:ghost", "parent": "urn:parent",
	}); status != 404 {
		t.Errorf("expected 404 linking unknown concept, got %d", status)
	}
}

func TestServer_Remove(t *testing.T) {
	s := newTestServer(t)
	postJSON(t, s, "/concepts", map[string]string{"uri": "urn:a"})

	resp, err := s.App().Test(httptest.NewRequest("DELETE", "/concepts?uri=urn:a", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 on remove, got %d", resp.StatusCode)
	}

	resp, err = s.App().Test(httptest.NewRequest("GET", "/concepts?uri=urn:a", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected 404 after removal, got %d", resp.StatusCode)
	}
}
