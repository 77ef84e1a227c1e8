package store

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"sitecms/internal/persist"
)

var testCommit = persist.Commit{
	Message:   "CMS: update pages/store-test",
	Committer: persist.Committer{Name: "Store Test", Email: "store@store-test.local"},
}

func TestDocumentStoreConditionalWrites(t *testing.T) {
	db := testDB(t)
	s := NewDocumentStore(db)
	ctx := context.Background()

	key := "pages/store-test-cond"
	t.Cleanup(func() { cleanDocuments(t, db, key) })

	if _, err := s.Get(ctx, key); !errors.Is(err, persist.ErrNotFound) {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}

	rev, err := s.Put(ctx, key, []byte(`{"slug":"a"}`), "", testCommit)
	if err != nil {
		t.Fatalf("Put(create): %v", err)
	}
	if _, err := s.Put(ctx, key, []byte(`{"slug":"b"}`), "", testCommit); !errors.Is(err, persist.ErrConflict) {
		t.Errorf("Put(create existing) = %v, want ErrConflict", err)
	}

	doc, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(doc.Content) != `{"slug":"a"}` || doc.Revision != rev {
		t.Errorf("doc = %s @ %s, want rev %s", doc.Content, doc.Revision, rev)
	}

	rev2, err := s.Put(ctx, key, []byte("{\n  \"slug\": \"c\"\n}"), rev, testCommit)
	if err != nil {
		t.Fatalf("Put(update): %v", err)
	}
	if rev2 == rev {
		t.Error("update kept the old revision")
	}
	if _, err := s.Put(ctx, key, []byte(`{}`), rev, testCommit); !errors.Is(err, persist.ErrConflict) {
		t.Errorf("Put(stale) = %v, want ErrConflict", err)
	}

	doc, _ = s.Get(ctx, key)
	if string(doc.Content) != "{\n  \"slug\": \"c\"\n}" {
		t.Errorf("content not stored verbatim: %q", doc.Content)
	}

	if err := s.Delete(ctx, key, rev, testCommit); !errors.Is(err, persist.ErrConflict) {
		t.Errorf("Delete(stale) = %v, want ErrConflict", err)
	}
	if err := s.Delete(ctx, key, rev2, testCommit); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, persist.ErrNotFound) {
		t.Errorf("Get after delete = %v", err)
	}
}

func TestDocumentStoreHistory(t *testing.T) {
	db := testDB(t)
	s := NewDocumentStore(db)
	revisions := NewDocumentRevisionStore(db)
	ctx := context.Background()

	key := "pages/store-test-history"
	t.Cleanup(func() { cleanDocuments(t, db, key) })

	rev, err := s.Put(ctx, key, []byte(`{"v":1}`), "", testCommit)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Put(ctx, key, []byte(`{"v":2}`), rev, testCommit); err != nil {
		t.Fatalf("Put: %v", err)
	}

	list, err := revisions.ListByKey(key, 10)
	if err != nil {
		t.Fatalf("ListByKey: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d revisions, want 2", len(list))
	}
	var contents []string
	for _, r := range list {
		contents = append(contents, string(r.Content))
		if r.CommitterEmail != "store@store-test.local" {
			t.Errorf("committer email = %q", r.CommitterEmail)
		}
	}
	if diff := cmp.Diff([]string{`{"v":2}`, `{"v":1}`}, contents); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}

	found, err := revisions.FindByID(list[1].ID)
	if err != nil || found == nil || found.Revision != rev {
		t.Errorf("FindByID = %+v, %v", found, err)
	}
	if missing, err := revisions.FindByID(uuid.New()); err != nil || missing != nil {
		t.Errorf("FindByID(unknown) = %+v, %v", missing, err)
	}
}

func TestDocumentStoreDeleteRecordsTombstone(t *testing.T) {
	db := testDB(t)
	s := NewDocumentStore(db)
	ctx := context.Background()

	key := "pages/store-test-tombstone"
	t.Cleanup(func() { cleanDocuments(t, db, key) })

	rev, _ := s.Put(ctx, key, []byte(`{}`), "", testCommit)
	if err := s.Delete(ctx, key, rev, testCommit); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list, _ := NewDocumentRevisionStore(db).ListByKey(key, 0)
	if len(list) != 2 || !list[0].Deleted() {
		t.Errorf("latest revision is not a deletion: %+v", list)
	}
}

func TestServiceOverPostgres(t *testing.T) {
	db := testDB(t)
	docs := NewDocumentStore(db)
	log := NewSaveLogStore(db)
	ctx := context.Background()

	keys := []string{"pages/store-test-svc-a", "pages/store-test-svc-b"}
	t.Cleanup(func() { cleanDocuments(t, db, keys...) })

	svc := persist.NewService(docs, persist.WithRecorder(log))
	batch := persist.NewBatch()
	batch.Put(keys[0], []byte(`{"slug":"a","sections":[]}`))
	batch.Put(keys[1], []byte(`{"slug":"b","sections":[]}`))

	results, err := svc.Apply(ctx, testCommit.Committer, batch)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}

	stored, err := docs.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	for _, k := range keys {
		if !slices.Contains(stored, k) {
			t.Errorf("key %s not listed", k)
		}
	}

	recent, err := log.RecentEntries(10)
	if err != nil {
		t.Fatalf("RecentEntries: %v", err)
	}
	var batchID uuid.UUID
	for _, e := range recent {
		if e.DocumentKey == keys[1] {
			batchID = e.BatchID
			break
		}
	}
	if batchID == uuid.Nil {
		t.Fatalf("no save log entry for %s", keys[1])
	}
	t.Cleanup(func() { cleanSaveLog(t, db, batchID) })

	entries, err := log.Batch(batchID)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.DocumentKey+":"+e.Status)
	}
	want := []string{keys[0] + ":ok", keys[1] + ":ok"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("batch entries mismatch (-want +got):\n%s", diff)
	}
}
