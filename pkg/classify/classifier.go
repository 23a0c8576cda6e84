// Package classify assigns categories to free-text item titles by comparing
// them against keyword documents with tf-idf weighted cosine similarity.
package classify

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// FallbackCategory is assigned when a title shares no vocabulary with any
// category document.
const FallbackCategory = "other"

// Classifier is fitted once per batch over the supplied category keyword
// table and reused for every title in that batch, so scores stay comparable.
type Classifier struct {
	categories []string
	vocab      map[string]int
	idf        []float64
	catVecs    [][]float64
}

// New builds one synthetic document per category from its keywords and fits
// tf-idf weights over those documents. Categories are ordered by name, which
// makes argmax tie-breaking deterministic regardless of map iteration.
func New(keywords map[string][]string) *Classifier {
	c := &Classifier{vocab: map[string]int{}}

	c.categories = make([]string, 0, len(keywords))
	for cat := range keywords {
		c.categories = append(c.categories, cat)
	}
	sort.Strings(c.categories)

	// tokenize category documents and collect the vocabulary
	docs := make([][]string, len(c.categories))
	for i, cat := range c.categories {
		docs[i] = tokenize(strings.Join(keywords[cat], " "))
		for _, tok := range docs[i] {
			if _, ok := c.vocab[tok]; !ok {
				c.vocab[tok] = len(c.vocab)
			}
		}
	}

	// smoothed idf, one weight per vocabulary term
	df := make([]int, len(c.vocab))
	for _, doc := range docs {
		seen := map[int]bool{}
		for _, tok := range doc {
			seen[c.vocab[tok]] = true
		}
		for idx := range seen {
			df[idx]++
		}
	}
	c.idf = make([]float64, len(c.vocab))
	n := float64(len(docs))
	for i, d := range df {
		c.idf[i] = math.Log((1+n)/(1+float64(d))) + 1
	}

	c.catVecs = make([][]float64, len(docs))
	for i, doc := range docs {
		c.catVecs[i] = c.vectorize(doc)
	}
	return c
}

// Categories returns the category names in classifier order
func (c *Classifier) Categories() []string {
	res := make([]string, len(c.categories))
	copy(res, c.categories)
	return res
}

// Classify returns the category whose keyword document is most similar to the
// title. Ties keep the first (lowest-named) category; a title with no
// vocabulary overlap at all falls back to FallbackCategory.
func (c *Classifier) Classify(title string) string {
	if len(c.categories) == 0 {
		return FallbackCategory
	}

	vec := c.vectorize(tokenize(title))

	best, bestScore := -1, 0.0
	for i, catVec := range c.catVecs {
		score := dot(vec, catVec)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return FallbackCategory
	}
	return c.categories[best]
}

// vectorize produces an l2-normalized tf-idf vector; tokens outside the
// fitted vocabulary are dropped
func (c *Classifier) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(c.vocab))
	for _, tok := range tokens {
		if idx, ok := c.vocab[tok]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= c.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// dot of two equal-length l2-normalized vectors is their cosine similarity
func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// tokenize lowercases, splits on non-alphanumeric runes and stems each token
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens = append(tokens, english.Stem(f, false))
	}
	return tokens
}
