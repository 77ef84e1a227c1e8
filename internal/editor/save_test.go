package editor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"sitecms/internal/persist"
	"sitecms/internal/session"
)

type fakeSaver struct {
	mu          sync.Mutex
	batches     []*persist.Batch
	credentials []string
	err         error
	entered     chan struct{}
	release     chan struct{}
}

func (f *fakeSaver) Save(_ context.Context, credential string, batch *persist.Batch) ([]persist.Result, error) {
	f.mu.Lock()
	f.batches = append(f.batches, batch)
	f.credentials = append(f.credentials, credential)
	f.mu.Unlock()

	if f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	var out []persist.Result
	for _, k := range batch.Keys() {
		out = append(out, persist.Result{File: k, Status: persist.StatusOK})
	}
	return out, nil
}

func (f *fakeSaver) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func editTitle(t *testing.T, s *Session, value string) {
	t.Helper()
	if err := s.EditText(textRegion("pages/home", "hero-1", "title"), value); err != nil {
		t.Fatalf("EditText: %v", err)
	}
}

func TestSaveCleanSessionIsNoop(t *testing.T) {
	sv := &fakeSaver{}
	s := newTestSession(t, WithSaver(sv), WithCredential("tok"))

	res, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Status != SaveNothing || sv.calls() != 0 {
		t.Errorf("status = %q, calls = %d", res.Status, sv.calls())
	}
}

func TestSaveSendsChangedDocuments(t *testing.T) {
	sv := &fakeSaver{}
	s := newTestSession(t, WithSaver(sv), WithCredential("tok"))
	editTitle(t, s, "Hello")

	res, err := s.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Status != SaveSaved {
		t.Errorf("status = %q", res.Status)
	}
	if diff := cmp.Diff([]string{"pages/home", "pages/bio"}, sv.batches[0].Keys()); diff != "" {
		t.Errorf("batch keys mismatch (-want +got):\n%s", diff)
	}
	if sv.credentials[0] != "tok" {
		t.Errorf("credential = %q", sv.credentials[0])
	}
	if s.Dirty() {
		t.Error("dirty after successful save")
	}
	if s.Model().Changed() {
		t.Error("synced state does not match pending after save")
	}

	// Snapshots are copies: editing again makes the model differ.
	editTitle(t, s, "Hello again")
	if !s.Model().Changed() {
		t.Error("edit after save did not register as a change")
	}
}

func TestSaveConflictKeepsEdits(t *testing.T) {
	sv := &fakeSaver{err: &persist.ConflictError{File: "pages/bio"}}
	s := newTestSession(t, WithSaver(sv), WithCredential("tok"))
	editTitle(t, s, "Hello")

	_, err := s.Save(context.Background())
	var ce *persist.ConflictError
	if !errors.As(err, &ce) || ce.File != "pages/bio" {
		t.Fatalf("Save = %v, want conflict on pages/bio", err)
	}
	if !s.Dirty() {
		t.Error("conflict cleared the dirty flag")
	}
	if !s.Model().Changed() {
		t.Error("conflict advanced the synced state")
	}
	if !s.State().Authenticated {
		t.Error("conflict discarded the credential")
	}
}

func TestSaveUnauthorizedDiscardsCredential(t *testing.T) {
	sv := &fakeSaver{err: persist.ErrUnauthorized}
	s := newTestSession(t, WithSaver(sv), WithCredential("expired"))
	editTitle(t, s, "Hello")

	if _, err := s.Save(context.Background()); !errors.Is(err, ErrReauthenticate) {
		t.Fatalf("Save = %v, want ErrReauthenticate", err)
	}
	if s.State().Authenticated {
		t.Error("credential kept after rejection")
	}
	if !s.Dirty() {
		t.Error("rejected save cleared dirty flag")
	}

	if _, err := s.Save(context.Background()); !errors.Is(err, ErrReauthenticate) {
		t.Errorf("Save without credential = %v", err)
	}
	if sv.calls() != 1 {
		t.Errorf("saver called %d times, want 1", sv.calls())
	}

	sv.err = nil
	s.SetCredential("fresh")
	if _, err := s.Save(context.Background()); err != nil {
		t.Fatalf("Save after re-login: %v", err)
	}
}

func TestSaveInProgress(t *testing.T) {
	sv := &fakeSaver{entered: make(chan struct{}), release: make(chan struct{})}
	s := newTestSession(t, WithSaver(sv), WithCredential("tok"))
	editTitle(t, s, "Hello")

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background())
		done <- err
	}()
	<-sv.entered

	if _, err := s.Save(context.Background()); !errors.Is(err, ErrSaveInProgress) {
		t.Errorf("concurrent Save = %v, want ErrSaveInProgress", err)
	}
	if !s.State().Saving {
		t.Error("state does not report the save in flight")
	}

	// Edits made during the save keep the session dirty.
	editTitle(t, s, "Edited meanwhile")
	close(sv.release)
	if err := <-done; err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !s.Dirty() {
		t.Error("edit made during save was marked clean")
	}
	if !s.Model().Changed() {
		t.Error("synced state includes an edit that was not sent")
	}
}

type sessionMap map[string]*session.Data

func (m sessionMap) Get(_ context.Context, token string) (*session.Data, error) {
	return m[token], nil
}

func TestLocalSaver(t *testing.T) {
	store := persist.NewMemoryStore()
	sessions := sessionMap{"tok": {UserID: uuid.New(), Email: "anna@example.com", DisplayName: "Anna"}}
	saver := NewLocalSaver(sessions, persist.NewService(store))

	batch := persist.NewBatch()
	batch.Put("site", json.RawMessage(`{"defaultLocale":"en","locales":["en"]}`))

	if _, err := saver.Save(context.Background(), "bad", batch); !errors.Is(err, persist.ErrUnauthorized) {
		t.Errorf("Save(bad token) = %v", err)
	}
	if len(store.Keys()) != 0 {
		t.Fatal("unauthorized save wrote to the store")
	}

	results, err := saver.Save(context.Background(), "tok", batch)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if diff := cmp.Diff([]persist.Result{{File: "site", Status: persist.StatusOK}}, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	commits := store.Commits()
	if len(commits) != 1 || commits[0].Committer.Email != "anna@example.com" || commits[0].Committer.Name != "Anna" {
		t.Errorf("commits = %+v", commits)
	}
}

func TestHTTPSaver(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, results []persist.Result, err error)
	}{
		{"ok", http.StatusOK, `{"ok":true,"results":[{"file":"site","status":"ok"}]}`, func(t *testing.T, results []persist.Result, err error) {
			if err != nil || len(results) != 1 || results[0].File != "site" {
				t.Errorf("got %v, %v", results, err)
			}
		}},
		{"unauthorized", http.StatusUnauthorized, `{"error":"Unauthorized"}`, func(t *testing.T, _ []persist.Result, err error) {
			if !errors.Is(err, persist.ErrUnauthorized) {
				t.Errorf("err = %v", err)
			}
		}},
		{"conflict", http.StatusConflict, `{"error":"Conflict on site.","file":"site"}`, func(t *testing.T, _ []persist.Result, err error) {
			var ce *persist.ConflictError
			if !errors.As(err, &ce) || ce.File != "site" {
				t.Errorf("err = %v", err)
			}
		}},
		{"failure", http.StatusInternalServerError, `{"error":"Failed to save site: boom","file":"site"}`, func(t *testing.T, _ []persist.Result, err error) {
			if err == nil || err.Error() != "Failed to save site: boom" {
				t.Errorf("err = %v", err)
			}
		}},
		{"bare status", http.StatusBadGateway, ``, func(t *testing.T, _ []persist.Result, err error) {
			if err == nil || err.Error() != "save endpoint returned status 502" {
				t.Errorf("err = %v", err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotAuth string
			var gotBody map[string]json.RawMessage
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				b, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(b, &gotBody)
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			batch := persist.NewBatch()
			batch.Put("site", json.RawMessage(`{"defaultLocale":"en"}`))
			batch.Delete("pages/gallery")

			results, err := NewHTTPSaver(srv.URL, srv.Client()).Save(context.Background(), "tok", batch)
			tt.check(t, results, err)

			if gotAuth != "Bearer tok" {
				t.Errorf("Authorization = %q", gotAuth)
			}
			if string(gotBody["files"]) != `{"site":{"defaultLocale":"en"},"pages/gallery":null}` {
				t.Errorf("files = %s", gotBody["files"])
			}
		})
	}
}

func TestSaveEndToEndWithTombstone(t *testing.T) {
	store := persist.NewMemoryStore()
	ctx := context.Background()
	for key, body := range map[string]string{
		"pages/home": `{"slug":"","title":{"en":"Home"},"sections":[]}`,
		"pages/bio":  `{"slug":"bio","title":{"en":"Bio"},"sections":[]}`,
	} {
		if _, err := store.Put(ctx, key, []byte(body), "", persist.Commit{}); err != nil {
			t.Fatal(err)
		}
	}

	sessions := sessionMap{"tok": {Email: "anna@example.com", DisplayName: "Anna"}}
	s := newTestSession(t, WithSaver(NewLocalSaver(sessions, persist.NewService(store))), WithCredential("tok"))

	if _, err := s.DeletePage("bio", true); err != nil {
		t.Fatal(err)
	}
	res, err := s.Save(ctx)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	want := []persist.Result{
		{File: "pages/home", Status: persist.StatusOK},
		{File: "pages/bio", Status: persist.StatusDeleted},
	}
	if diff := cmp.Diff(want, res.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if _, err := store.Get(ctx, "pages/bio"); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("bio still stored: %v", err)
	}

}
