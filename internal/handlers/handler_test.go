// handler_test.go provides shared test infrastructure. Editor and save
// tests run against an in-memory content store; auth tests need
// PostgreSQL and Valkey and are skipped when those are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"sitecms/internal/database"
	"sitecms/internal/editor"
	"sitecms/internal/middleware"
	"sitecms/internal/persist"
	"sitecms/internal/render"
	"sitecms/internal/session"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "sitecms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "sitecms")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// sessionMap resolves bearer tokens without Valkey.
type sessionMap map[string]*session.Data

func (m sessionMap) Get(_ context.Context, token string) (*session.Data, error) {
	return m[token], nil
}

const (
	siteJSON     = `{"defaultLocale":"en","locales":["en","nl"],"localeNames":{"en":"English","nl":"Nederlands"},"siteTitle":"Anna Viola"}`
	concertsJSON = `{"concerts":[{"date":"2024-05-01","venue":"De Doelen","city":"Rotterdam","program":"Brahms"}]}`
	homeJSON     = `{"slug":"","title":{"en":"Home","nl":"Thuis"},"showInNav":true,"navOrder":0,"sections":[{"id":"hero-1","type":"hero","content":{"title":{"en":"Welcome","nl":"Welkom"},"image":"/a.jpg"}},{"id":"list-1","type":"list","content":{"items":[{"en":"One"}]}}]}`
	bioJSON      = `{"slug":"bio","title":{"en":"Bio"},"showInNav":true,"navOrder":1,"sections":[]}`
)

// testOperator is the session behind testToken.
var testOperator = &session.Data{UserID: uuid.New(), Email: "anna@example.com", DisplayName: "Anna Viola", TwoFADone: true}

const testToken = "test-token"

// editorEnv is an editor handler over a seeded in-memory store.
type editorEnv struct {
	Store    *persist.MemoryStore
	Sessions sessionMap
	Registry *editor.Registry
	Editor   *Editor
	Router   chi.Router
}

func newEditorEnv(t *testing.T) *editorEnv {
	t.Helper()

	store := persist.NewMemoryStore()
	for key, body := range map[string]string{
		"site":       siteJSON,
		"concerts":   concertsJSON,
		"pages/home": homeJSON,
		"pages/bio":  bioJSON,
	} {
		if _, err := store.Put(context.Background(), key, []byte(body), "", persist.Commit{}); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	sessions := sessionMap{testToken: testOperator}
	registry := editor.NewRegistry(0)
	t.Cleanup(registry.Stop)

	saver := editor.NewLocalSaver(sessions, persist.NewService(store, persist.WithManifest()))
	ed := NewEditor(registry, editor.NewLoader(editor.NewStoreSource(store)), saver, renderer)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(sessions))
	r.With(middleware.RequireAuth).Post("/sessions", ed.Create)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", ed.State)
		r.Delete("/", ed.Close)
		r.Post("/bind", ed.Bind)
		r.Put("/route", ed.SetRoute)
		r.Put("/locale", ed.SelectLocale)
		r.Post("/locales/add", ed.AddLocale)
		r.Post("/locales/remove", ed.RemoveLocale)
		r.Post("/text", ed.EditText)
		r.Post("/image/open", ed.OpenImage)
		r.Post("/image/apply", ed.ApplyImage)
		r.Post("/image/click", ed.ClickImage)
		r.Post("/image/close", ed.CloseImage)
		r.Post("/lists/add", ed.AddListItem)
		r.Post("/lists/remove", ed.RemoveListItem)
		r.Post("/concerts/add", ed.AddConcert)
		r.Post("/concerts/edit", ed.EditConcert)
		r.Post("/concerts/remove", ed.RemoveConcert)
		r.Post("/sections/add", ed.AddSection)
		r.Post("/sections/delete", ed.DeleteSection)
		r.Post("/sections/move", ed.MoveSection)
		r.Post("/pages/add", ed.AddPage)
		r.Post("/pages/delete", ed.DeletePage)
		r.Post("/save", ed.Save)
		r.With(middleware.RequireAuth).Put("/credential", ed.SetCredential)
	})

	return &editorEnv{Store: store, Sessions: sessions, Registry: registry, Editor: ed, Router: r}
}

// do sends a request through the test router. A non-string body is
// encoded as JSON.
func (e *editorEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// open creates an editing session and returns its id.
func (e *editorEnv) open(t *testing.T) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/sessions", testToken, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", rec.Code, rec.Body)
	}
	var st editor.State
	decode(t, rec, &st)
	return st.ID
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

// withSession returns r carrying the session and token the middleware
// would have loaded.
func withSession(r *http.Request, data *session.Data, token string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.SessionKey, data)
	ctx = context.WithValue(ctx, middleware.TokenKey, token)
	return r.WithContext(ctx)
}
