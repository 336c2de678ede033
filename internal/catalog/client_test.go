package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drivesum/drivesum/internal/retry"
)

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL: baseURL,
		Token:   "test-token",
		Timeout: 5 * time.Second,
		QPS:     1000,
		Retry:   retry.Config{Attempts: 2, BaseWait: time.Millisecond},
	})
}

func TestFindByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files" {
			t.Errorf("path = %s, want /files", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "report.pdf" {
			t.Errorf("name = %q, want report.pdf", got)
		}
		if got := r.URL.Query().Get("trashed"); got != "false" {
			t.Errorf("trashed = %q, want false", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing X-Request-Id header")
		}
		fmt.Fprint(w, `{"files":[
			{"id":"f1","name":"report.pdf","createdTime":"2024-03-01T10:00:00Z","size":2048,"md5Checksum":"aa11"},
			{"id":"f2","name":"report.pdf","createdTime":"2024-04-01T10:00:00Z"}
		]}`)
	}))
	defer srv.Close()

	files, err := testClient(srv.URL).FindByName(context.Background(), "report.pdf")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len(files) = %d, want 2", len(files))
	}
	if files[0].ID != "f1" || files[0].Checksum != "aa11" {
		t.Errorf("unexpected first record: %+v", files[0])
	}
	if files[0].Size == nil || *files[0].Size != 2048 {
		t.Errorf("first record size = %v, want 2048", files[0].Size)
	}
	if files[1].Size != nil {
		t.Errorf("second record size should be unknown, got %v", *files[1].Size)
	}
}

func TestFindByNameEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files":[]}`)
	}))
	defer srv.Close()

	files, err := testClient(srv.URL).FindByName(context.Background(), "ghost.bin")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("len(files) = %d, want 0", len(files))
	}
}

func TestListRevisions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/f1/revisions" {
			t.Errorf("path = %s, want /files/f1/revisions", r.URL.Path)
		}
		fmt.Fprint(w, `{"revisions":[
			{"id":"r1","modifiedTime":"2024-01-01T00:00:00Z","originalFilename":"report.pdf","size":100,"md5Checksum":"aa"},
			{"id":"r2","modifiedTime":"2024-02-01T00:00:00Z","originalFilename":"report.pdf","md5Checksum":"bb"}
		]}`)
	}))
	defer srv.Close()

	revisions, err := testClient(srv.URL).ListRevisions(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revisions) != 2 {
		t.Fatalf("len(revisions) = %d, want 2", len(revisions))
	}
	// Fetch order must be preserved and the parent ID attached.
	if revisions[0].ID != "r1" || revisions[1].ID != "r2" {
		t.Errorf("revision order changed: %s, %s", revisions[0].ID, revisions[1].ID)
	}
	for _, rev := range revisions {
		if rev.FileID != "f1" {
			t.Errorf("revision %s FileID = %q, want f1", rev.ID, rev.FileID)
		}
	}
	if revisions[1].Size != nil {
		t.Errorf("second revision size should be unknown, got %v", *revisions[1].Size)
	}
}

func TestListRevisionsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"revisions":[]}`)
	}))
	defer srv.Close()

	revisions, err := testClient(srv.URL).ListRevisions(context.Background(), "f1")
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(revisions) != 0 {
		t.Errorf("len(revisions) = %d, want 0", len(revisions))
	}
}

func TestRetriesServerError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"files":[]}`)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).FindByName(context.Background(), "a"); err != nil {
		t.Fatalf("FindByName after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClientErrorIsTerminal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).FindByName(context.Background(), "a"); err == nil {
		t.Fatal("expected error on 403")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 4xx)", calls)
	}
}
