package sqlite

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/strindex/internal/domain"
	"github.com/kailas-cloud/strindex/internal/domain/query/filter"
	"github.com/kailas-cloud/strindex/internal/domain/record"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func put(t *testing.T, s *Store, values ...string) []record.Record {
	t.Helper()
	out := make([]record.Record, 0, len(values))
	for _, v := range values {
		r, err := record.New(v, time.Now())
		if err != nil {
			t.Fatalf("record.New(%q): %v", v, err)
		}
		if err := s.Put(context.Background(), r); err != nil {
			t.Fatalf("Put(%q): %v", v, err)
		}
		out = append(out, r)
	}
	return out
}

func valuesOf(rs []record.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Value()
	}
	return out
}

func TestPutGet_PreservesRecord(t *testing.T) {
	s := openStore(t)
	created := time.Date(2025, 10, 1, 12, 30, 0, 123456789, time.UTC)
	want, _ := record.New("Race Car", created)
	if err := s.Put(context.Background(), want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(context.Background(), want.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID() != want.ID() || got.Value() != want.Value() {
		t.Errorf("got %q/%q, want %q/%q", got.ID(), got.Value(), want.ID(), want.Value())
	}
	if !got.CreatedAt().Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt(), created)
	}
	if !got.IsPalindrome() || got.WordCount() != 2 || got.Length() != 8 {
		t.Errorf("properties = palindrome:%v words:%d length:%d", got.IsPalindrome(), got.WordCount(), got.Length())
	}
}

func TestPut_DuplicateAndCapacity(t *testing.T) {
	ctx := context.Background()
	s := openStore(t).WithMaxRecords(2)
	rs := put(t, s, "one", "two")

	if err := s.Put(ctx, rs[0]); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate: expected ErrAlreadyExists, got %v", err)
	}
	three, _ := record.New("three", time.Now())
	if err := s.Put(ctx, three); !errors.Is(err, domain.ErrStoreFull) {
		t.Errorf("over capacity: expected ErrStoreFull, got %v", err)
	}
	if n := s.Count(ctx); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestGetDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestDelete_KeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	rs := put(t, s, "a", "b", "c")

	if err := s.Delete(ctx, rs[1].ID()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := s.List(ctx, filter.Set{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got := valuesOf(all); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("List = %v, want [a c]", got)
	}
}

func TestList_Filters(t *testing.T) {
	s := openStore(t)
	put(t, s, "racecar", "hello world", "noon", "a man a plan a canal panama", "Grüße")

	tests := []struct {
		name string
		set  filter.Set
		want []string
	}{
		{"all", filter.Set{}, []string{"racecar", "hello world", "noon", "a man a plan a canal panama", "Grüße"}},
		{"palindromes", filter.Set{}.WithIsPalindrome(true),
			[]string{"racecar", "noon", "a man a plan a canal panama"}},
		{"not palindromes", filter.Set{}.WithIsPalindrome(false), []string{"hello world", "Grüße"}},
		{"single word palindromes", filter.Set{}.WithIsPalindrome(true).WithWordCount(1), []string{"racecar", "noon"}},
		{"length window", filter.Set{}.WithMinLength(4).WithMaxLength(7), []string{"racecar", "noon", "Grüße"}},
		{"contains w", filter.Set{}.WithContainsCharacter('w'), []string{"hello world"}},
		{"contains non-ascii", filter.Set{}.WithContainsCharacter('ü'), []string{"Grüße"}},
		{"case-sensitive", filter.Set{}.WithContainsCharacter('G'), []string{"Grüße"}},
		{"no match", filter.Set{}.WithWordCount(5), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := s.List(context.Background(), tt.set)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			got := valuesOf(rs)
			if len(got) != len(tt.want) {
				t.Fatalf("List = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("List = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(filter.Set{})
	if where != "" || args != nil {
		t.Errorf("empty set: %q %v", where, args)
	}

	where, args = whereClause(filter.Set{}.WithIsPalindrome(true).WithMinLength(3).WithContainsCharacter('x'))
	want := " WHERE is_palindrome = ? AND length >= ? AND instr(value, ?) > 0"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 3 || args[0] != 1 || args[1] != 3 || args[2] != "x" {
		t.Errorf("args = %v", args)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, _ := record.New(fmt.Sprintf("value-%d", i), time.Now())
			_ = s.Put(ctx, r)
			_, _ = s.List(ctx, filter.Set{}.WithMinLength(1))
			if i%2 == 0 {
				_ = s.Delete(ctx, r.ID())
			}
		}(i)
	}
	wg.Wait()

	if n := s.Count(ctx); n != 10 {
		t.Errorf("Count = %d, want 10", n)
	}
}

func TestPingClose(t *testing.T) {
	s, err := Open(context.Background(), DefaultDSN)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
	_ = s.Close()
	if err := s.Ping(context.Background()); err == nil {
		t.Error("Ping after Close should fail")
	}
}
