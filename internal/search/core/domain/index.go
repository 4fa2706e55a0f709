package domain

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Index is an add-only inverted index from lower-cased alphanumeric tokens
// to handles.
type Index struct {
	mu       sync.RWMutex
	postings map[string]map[string]struct{}
}

func NewIndex() *Index {
	return &Index{postings: make(map[string]map[string]struct{})}
}

// Tokenize lower-cases text and splits it into maximal runs of letters and
// digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Index adds handle to the posting set of every token of term.
func (x *Index) Index(term, handle string) {
	tokens := Tokenize(term)
	if len(tokens) == 0 {
		return
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, tok := range tokens {
		set, ok := x.postings[tok]
		if !ok {
			set = make(map[string]struct{})
			x.postings[tok] = set
		}
		set[handle] = struct{}{}
	}
}

// Query returns the sorted handles indexed under every token of text. Empty
// text or any unknown token yields no results.
func (x *Index) Query(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	sets := make([]map[string]struct{}, 0, len(tokens))
	for _, tok := range tokens {
		set, ok := x.postings[tok]
		if !ok {
			return []string{}
		}
		sets = append(sets, set)
	}
	// intersect starting from the smallest set
	sort.Slice(sets, func(i, j int) bool { return len(sets[i]) < len(sets[j]) })

	out := make([]string, 0, len(sets[0]))
next:
	for h := range sets[0] {
		for _, s := range sets[1:] {
			if _, ok := s[h]; !ok {
				continue next
			}
		}
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Terms reports the number of distinct tokens.
func (x *Index) Terms() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.postings)
}
