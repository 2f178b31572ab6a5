package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSupabaseUploadObjectOverwritesAtPath(t *testing.T) {
	var gotPath, gotUpsert, gotType, gotAuth, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUpsert = r.Header.Get("x-upsert")
		gotType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"Key":"avatars/u/avatar"}`))
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL+"/", "avatars", "service-key")
	publicURL, err := storage.UploadObject(context.Background(), strings.NewReader("image"), "/u/avatar", "image/jpeg")
	if err != nil {
		t.Fatalf("UploadObject: %v", err)
	}

	if gotPath != "/storage/v1/object/avatars/u/avatar" {
		t.Fatalf("unexpected upload path %q", gotPath)
	}
	if gotUpsert != "true" || gotType != "image/jpeg" || gotAuth != "Bearer service-key" || gotBody != "image" {
		t.Fatalf("unexpected request headers/body: %q %q %q %q", gotUpsert, gotType, gotAuth, gotBody)
	}
	if publicURL != server.URL+"/storage/v1/object/public/avatars/u/avatar" {
		t.Fatalf("unexpected public url %q", publicURL)
	}
}

func TestSupabaseUploadObjectReportsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bucket not found", http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "avatars", "key")
	_, err := storage.UploadObject(context.Background(), strings.NewReader("x"), "u/avatar", "")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}
