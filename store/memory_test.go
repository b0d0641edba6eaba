package store

import (
	"bytes"
	"context"
	"slices"
	"testing"
)

func TestMemorySetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	if err := m.Set(ctx, "key", []byte("value")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := m.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Fatalf("Get() = %q, want %q", got, "value")
	}

	_, ok, err = m.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Fatal("Get() ok = true for absent key, want false")
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	value := []byte("original")
	if err := m.Set(ctx, "key", value); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Mutating the caller's slice must not reach the store.
	value[0] = 'X'
	got, _, _ := m.Get(ctx, "key")
	if !bytes.Equal(got, []byte("original")) {
		t.Fatalf("Get() = %q, want %q", got, "original")
	}

	// Mutating the returned slice must not either.
	got[0] = 'Y'
	again, _, _ := m.Get(ctx, "key")
	if !bytes.Equal(again, []byte("original")) {
		t.Fatalf("Get() = %q, want %q", again, "original")
	}
}

func TestMemoryOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	_ = m.Set(ctx, "key", []byte("one"))
	_ = m.Set(ctx, "key", []byte("two"))

	got, _, _ := m.Get(ctx, "key")
	if !bytes.Equal(got, []byte("two")) {
		t.Fatalf("Get() = %q, want %q", got, "two")
	}
}

func TestMemoryRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	_ = m.Set(ctx, "key", []byte("value"))
	if err := m.Remove(ctx, "key"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "key"); ok {
		t.Fatal("Get() ok = true after Remove, want false")
	}

	// Absent keys are fine.
	if err := m.Remove(ctx, "absent"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
}

func TestMemoryClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	_ = m.Set(ctx, "a", []byte("1"))
	_ = m.Set(ctx, "b", []byte("2"))

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	keys, err := m.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("Keys() = %v, want empty", keys)
	}
}

func TestMemoryKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := NewMemory()

	want := []string{"alpha", "beta", "gamma"}
	for _, key := range want {
		_ = m.Set(ctx, key, []byte(key))
	}

	keys, err := m.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	slices.Sort(keys)
	if !slices.Equal(keys, want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
}
