package filter

import (
	"strings"
	"testing"
	"unicode/utf8"
)

type stubTarget struct {
	value      string
	length     int
	palindrome bool
	words      int
}

func (s stubTarget) Value() string      { return s.value }
func (s stubTarget) Length() int        { return s.length }
func (s stubTarget) IsPalindrome() bool { return s.palindrome }
func (s stubTarget) WordCount() int     { return s.words }

func target(value string, palindrome bool) stubTarget {
	return stubTarget{
		value:      value,
		length:     utf8.RuneCountInString(value),
		palindrome: palindrome,
		words:      len(strings.Fields(value)),
	}
}

func TestMatches_EmptySetMatchesEverything(t *testing.T) {
	if !Matches(target("anything", false), Set{}) {
		t.Error("empty set must match")
	}
}

func TestMatches_Fields(t *testing.T) {
	racecar := target("racecar", true)
	hello := target("hello world", false)

	tests := []struct {
		name string
		tgt  stubTarget
		set  Set
		want bool
	}{
		{"palindrome true match", racecar, Set{}.WithIsPalindrome(true), true},
		{"palindrome true miss", hello, Set{}.WithIsPalindrome(true), false},
		{"palindrome false match", hello, Set{}.WithIsPalindrome(false), true},
		{"min inclusive", racecar, Set{}.WithMinLength(7), true},
		{"min miss", racecar, Set{}.WithMinLength(8), false},
		{"max inclusive", racecar, Set{}.WithMaxLength(7), true},
		{"max miss", racecar, Set{}.WithMaxLength(6), false},
		{"word count exact", hello, Set{}.WithWordCount(2), true},
		{"word count miss", hello, Set{}.WithWordCount(1), false},
		{"contains", hello, Set{}.WithContainsCharacter('w'), true},
		{"contains space", hello, Set{}.WithContainsCharacter(' '), true},
		{"contains miss", hello, Set{}.WithContainsCharacter('z'), false},
		{"contains case-sensitive", hello, Set{}.WithContainsCharacter('H'), false},
		{"conjunction all hold", racecar, Set{}.WithIsPalindrome(true).WithWordCount(1).WithContainsCharacter('e'), true},
		{"conjunction one fails", racecar, Set{}.WithIsPalindrome(true).WithWordCount(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.tgt, tt.set); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
			if got := tt.set.Matches(tt.tgt); got != tt.want {
				t.Errorf("Set.Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

// checks evaluated independently; used to show evaluation order does not matter.
var independentChecks = []func(Target, Set) bool{
	func(t Target, s Set) bool { v, ok := s.IsPalindrome(); return !ok || t.IsPalindrome() == v },
	func(t Target, s Set) bool { v, ok := s.MinLength(); return !ok || t.Length() >= v },
	func(t Target, s Set) bool { v, ok := s.MaxLength(); return !ok || t.Length() <= v },
	func(t Target, s Set) bool { v, ok := s.WordCount(); return !ok || t.WordCount() == v },
	func(t Target, s Set) bool {
		c, ok := s.ContainsCharacter()
		return !ok || strings.ContainsRune(t.Value(), c)
	},
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func TestMatches_OrderIndependent(t *testing.T) {
	targets := []stubTarget{
		target("racecar", true),
		target("hello world", false),
		target("a", true),
		target("Never odd or even", true),
	}
	sets := []Set{
		{},
		Set{}.WithIsPalindrome(true).WithMaxLength(7),
		Set{}.WithMinLength(2).WithWordCount(2).WithContainsCharacter('o'),
		Set{}.WithIsPalindrome(false).WithContainsCharacter('h'),
		Set{}.WithMinLength(1).WithMaxLength(1).WithWordCount(1).WithContainsCharacter('a').WithIsPalindrome(true),
	}
	perms := permutations(len(independentChecks))
	if len(perms) != 120 {
		t.Fatalf("expected 120 permutations, got %d", len(perms))
	}

	for _, tg := range targets {
		for _, s := range sets {
			want := Matches(tg, s)
			for _, p := range perms {
				got := true
				for _, idx := range p {
					if !independentChecks[idx](tg, s) {
						got = false
						break
					}
				}
				if got != want {
					t.Fatalf("order %v on %q: got %v, Matches = %v", p, tg.value, got, want)
				}
			}
		}
	}
}
