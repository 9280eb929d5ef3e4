package search

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// matchThreshold is the minimum per-word similarity that counts as a match.
const matchThreshold = 60.0

// Levenshtein computes the case-insensitive edit distance between a and b,
// counting runes, with unit cost for insertion, deletion and substitution.
func Levenshtein(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// Similarity returns how alike a and b are as a percentage in [0,100].
// Two empty strings are 100% similar.
func Similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 100
	}
	d := Levenshtein(a, b)
	return float64(maxLen-d) / float64(maxLen) * 100
}

// FuzzySearchScore scores how well searchTerm matches targetText, in [0,100].
// A verbatim case-insensitive substring hit scores 100. Otherwise each search
// word takes its best similarity against the target words; words below 60
// are unmatched, and the average of matched words is scaled by the fraction
// of search words that matched.
func FuzzySearchScore(searchTerm, targetText string) float64 {
	return fuzzyScore(searchTerm, targetText, Similarity)
}

// Scorer is FuzzySearchScore with a bounded cache of word-pair similarities.
// It is safe for concurrent use.
type Scorer struct {
	cache *lru.Cache[wordPair, float64]
}

type wordPair struct {
	a, b string
}

// NewScorer creates a Scorer caching up to size word pairs. A size of zero
// or less disables caching.
func NewScorer(size int) (*Scorer, error) {
	if size <= 0 {
		return &Scorer{}, nil
	}
	cache, err := lru.New[wordPair, float64](size)
	if err != nil {
		return nil, err
	}
	return &Scorer{cache: cache}, nil
}

// Score behaves like FuzzySearchScore.
func (s *Scorer) Score(searchTerm, targetText string) float64 {
	if s == nil || s.cache == nil {
		return FuzzySearchScore(searchTerm, targetText)
	}
	return fuzzyScore(searchTerm, targetText, s.similarity)
}

func (s *Scorer) similarity(a, b string) float64 {
	// Similarity is symmetric, so order the key to share entries.
	key := wordPair{a, b}
	if b < a {
		key = wordPair{b, a}
	}
	if v, ok := s.cache.Get(key); ok {
		return v
	}
	v := Similarity(a, b)
	s.cache.Add(key, v)
	return v
}

func fuzzyScore(searchTerm, targetText string, sim func(a, b string) float64) float64 {
	term := strings.ToLower(searchTerm)
	target := strings.ToLower(targetText)
	if strings.Contains(target, term) {
		return 100
	}

	searchWords := strings.Fields(term)
	targetWords := strings.Fields(target)
	if len(searchWords) == 0 || len(targetWords) == 0 {
		return 0
	}

	var total float64
	matched := 0
	for _, sw := range searchWords {
		best := 0.0
		for _, tw := range targetWords {
			if v := sim(sw, tw); v > best {
				best = v
			}
		}
		if best >= matchThreshold {
			total += best
			matched++
		}
	}
	if matched == 0 {
		return 0
	}

	avg := total / float64(matched)
	return avg * float64(matched) / float64(len(searchWords))
}
