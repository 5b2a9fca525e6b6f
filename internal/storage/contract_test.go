package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/pkg/errors"
)

func TestStoreContract(t *testing.T) {
	factories := map[string]func(t *testing.T) (Store, func()){
		"memory": func(t *testing.T) (Store, func()) {
			return NewMemoryStore(), func() {}
		},
		"file": func(t *testing.T) (Store, func()) {
			s, err := NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			return s, func() {}
		},
		"sqlite": func(t *testing.T) (Store, func()) {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "rewind.db"))
			if err != nil {
				t.Fatalf("NewSQLiteStore() error = %v", err)
			}
			return s, func() { _ = s.Close() }
		},
		"redis": func(t *testing.T) (Store, func()) {
			return newRedisStoreForTest(t)
		},
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			t.Run("SaveLoad", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				contractSaveLoad(t, s)
			})
			t.Run("Overwrite", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				contractOverwrite(t, s)
			})
			t.Run("ListDelete", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				contractListDelete(t, s)
			})
			t.Run("NotFound", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				contractNotFound(t, s)
			})
			t.Run("InvalidName", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				if err := s.Save(context.Background(), "../escape", []byte(`{}`)); err == nil {
					t.Fatal("Save() with path separator should fail")
				}
			})
			t.Run("Concurrent", func(t *testing.T) {
				s, cleanup := factory(t)
				defer cleanup()
				contractConcurrent(t, s)
			})
		})
	}
}

var jsonDoc = []byte(`{"format":"rewind.timeline","version":1,"terminated":true,"slots":[]}` + "\n")

func contractSaveLoad(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if err := s.Save(ctx, "boss-fight", jsonDoc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "boss-fight")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != string(jsonDoc) {
		t.Errorf("Load() = %q, want %q", got, jsonDoc)
	}
}

func contractOverwrite(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	cborDoc := []byte{0xd9, 0xd9, 0xf7, 0xa0}

	if err := s.Save(ctx, "run", jsonDoc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, "run", cborDoc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := s.Load(ctx, "run")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if string(got) != string(cborDoc) {
		t.Errorf("Load() = %x, want %x", got, cborDoc)
	}
	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"run"}) {
		t.Errorf("List() = %v, want [run]", names)
	}
}

func contractListDelete(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("List() on empty store = %v, want none", names)
	}

	for _, n := range []string{"c", "a", "b"} {
		if err := s.Save(ctx, n, jsonDoc); err != nil {
			t.Fatalf("Save(%q) error = %v", n, err)
		}
	}
	names, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("List() = %v, want [a b c]", names)
	}

	if err := s.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	names, _ = s.List(ctx)
	if !reflect.DeepEqual(names, []string{"a", "c"}) {
		t.Errorf("List() after delete = %v, want [a c]", names)
	}
}

func contractNotFound(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func contractConcurrent(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Save(ctx, "shared", jsonDoc); err != nil {
				errs <- err
				return
			}
			if _, err := s.Load(ctx, "shared"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access error = %v", err)
	}
}
