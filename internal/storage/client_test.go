package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig(srvURL string) *Config {
	return &Config{
		Bucket:        "test-bucket",
		AccessToken:   "tok",
		PublicBaseURL: srvURL,
		UploadBaseURL: srvURL + "/upload/storage/v1",
		ObjectBaseURL: srvURL + "/storage/v1",
	}
}

func TestClient_Upload(t *testing.T) {
	var gotQuery map[string][]string
	var gotBody []byte
	var gotAuth, gotMime string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotBody, _ = io.ReadAll(r.Body)
		gotAuth = r.Header.Get("Authorization")
		gotMime = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"name":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	url, err := client.Upload(context.Background(), []byte("imagebytes"), "42", "image/png", "outfit-tryon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(gotBody) != "imagebytes" {
		t.Errorf("body = %q", gotBody)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotMime != "image/png" {
		t.Errorf("content-type = %q", gotMime)
	}
	if gotQuery["predefinedAcl"][0] != "publicRead" {
		t.Errorf("predefinedAcl = %v", gotQuery["predefinedAcl"])
	}

	name := gotQuery["name"][0]
	if !strings.HasPrefix(name, "users/42/outfit-tryon-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("object name = %q", name)
	}
	if want := srv.URL + "/test-bucket/" + name; url != want {
		t.Errorf("public url = %q, want %q", url, want)
	}
}

func TestClient_Upload_Unconfigured(t *testing.T) {
	client := NewClient(&Config{})
	if _, err := client.Upload(context.Background(), []byte("x"), "1", "image/png", "p"); err == nil {
		t.Fatal("expected error when bucket is not configured")
	}
}

func TestClient_Delete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))

	publicURL := srv.URL + "/test-bucket/users/42/outfit-tryon-abc.png"
	if err := client.Delete(context.Background(), publicURL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q", gotMethod)
	}
	if !strings.HasSuffix(gotPath, "/o/users%2F42%2Foutfit-tryon-abc.png") {
		t.Errorf("path = %q", gotPath)
	}
}

func TestClient_Delete_NotFoundIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if err := client.Delete(context.Background(), srv.URL+"/test-bucket/users/1/x.png"); err != nil {
		t.Fatalf("404 should count as deleted, got %v", err)
	}
}

func TestClient_Delete_ForeignURL(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	if err := client.Delete(context.Background(), "https://example.com/not-our-bucket/x.png"); err == nil {
		t.Fatal("expected error for URL outside the configured bucket")
	}
	if calls != 0 {
		t.Errorf("no HTTP call should be made for a foreign URL, got %d", calls)
	}
}

func TestObjectName_ExtensionFromMime(t *testing.T) {
	name := ObjectName("7", "image/webp", "ai-styling")
	if !strings.HasPrefix(name, "users/7/ai-styling-") || !strings.HasSuffix(name, ".webp") {
		t.Errorf("object name = %q", name)
	}
}
