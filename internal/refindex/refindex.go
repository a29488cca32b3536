// Package refindex implements the reference documentation index spec.md
// §4.6 describes: a case-folded trie over titles for prefix lookup, a
// hashmap keyed by lowercased title for exact lookup (Entry.CanonicalName
// is not consulted), an inverted tag index, and a
// small synonym table, combined by the relevance scorer into a single
// ranked result list. Component C6.
package refindex

import (
	"sort"
	"strings"

	"pinelint/internal/docs"
	"pinelint/internal/logging"
)

const (
	scoreExact    = 100
	scorePrefix   = 40
	scoreTagHit   = 10
	scoreSynonym  = 5
	defaultMaxResults = 20
)

// synonyms maps a search term to canonical tags/titles it should also
// match against, grounded on the common shorthand Pine Script authors use.
var synonyms = map[string][]string{
	"macd":   {"moving average", "oscillator"},
	"ma":     {"moving average"},
	"udt":    {"type"},
	"struct": {"type", "udt"},
	"table":  {"drawing", "display"},
	"continuation": {"line break", "syntax"},
}

// Result is one ranked hit.
type Result struct {
	Entry docs.Entry `json:"entry"`
	Score int        `json:"score"`
}

// Index is a built, queryable reference index.
type Index struct {
	byTitle map[string]docs.Entry // exact-match hashmap, keyed by lowercased title
	trie    *trieNode
	tagIdx  map[string][]string // lowercase tag -> titles
	entries []docs.Entry
}

type trieNode struct {
	children map[byte]*trieNode
	titles   []string // titles reachable at/below this node, case-folded key
}

func newTrieNode() *trieNode { return &trieNode{children: map[byte]*trieNode{}} }

// Build constructs an Index from a documentation set.
func Build(entries []docs.Entry) *Index {
	idx := &Index{
		byTitle: map[string]docs.Entry{},
		trie:    newTrieNode(),
		tagIdx:  map[string][]string{},
		entries: entries,
	}
	for _, e := range entries {
		key := strings.ToLower(e.Title)
		idx.byTitle[key] = e
		idx.insertTrie(key)
		for _, tag := range e.Tags {
			tkey := strings.ToLower(tag)
			idx.tagIdx[tkey] = append(idx.tagIdx[tkey], e.Title)
		}
	}
	logging.RefIndex("built reference index: %d entries, %d tags", len(entries), len(idx.tagIdx))
	return idx
}

func (idx *Index) insertTrie(key string) {
	node := idx.trie
	for i := 0; i < len(key); i++ {
		c := key[i]
		child, ok := node.children[c]
		if !ok {
			child = newTrieNode()
			node.children[c] = child
		}
		node = child
		node.titles = append(node.titles, key)
	}
}

// prefixMatches returns every indexed title (case-folded) that has query
// as a prefix.
func (idx *Index) prefixMatches(query string) []string {
	node := idx.trie
	for i := 0; i < len(query); i++ {
		child, ok := node.children[query[i]]
		if !ok {
			return nil
		}
		node = child
	}
	return node.titles
}

// Lookup implements the reference_lookup tool's ranking (spec.md §4.6):
// exact title match scores highest, then prefix match, then tag overlap
// and synonym expansion hits are added on top. Results with score 0 are
// dropped; ties break by ascending title.
func (idx *Index) Lookup(query string, tags []string, maxResults int) []Result {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	q := strings.ToLower(strings.TrimSpace(query))
	scores := map[string]int{}

	if q != "" {
		if _, ok := idx.byTitle[q]; ok {
			scores[q] += scoreExact
		}
		for _, t := range idx.prefixMatches(q) {
			if t == q {
				continue
			}
			scores[t] += scorePrefix
		}
		for _, expansion := range synonyms[q] {
			ekey := strings.ToLower(expansion)
			for _, t := range idx.tagIdx[ekey] {
				scores[strings.ToLower(t)] += scoreSynonym
			}
			if _, ok := idx.byTitle[ekey]; ok {
				scores[ekey] += scoreSynonym
			}
		}
	}

	for _, tag := range tags {
		tkey := strings.ToLower(tag)
		for _, t := range idx.tagIdx[tkey] {
			scores[strings.ToLower(t)] += scoreTagHit
		}
	}

	var results []Result
	for key, score := range scores {
		if score <= 0 {
			continue
		}
		entry, ok := idx.byTitle[key]
		if !ok {
			continue
		}
		results = append(results, Result{Entry: entry, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Entry.Title < results[j].Entry.Title
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	logging.RefIndexDebug("lookup(%q, tags=%v) -> %d results", query, tags, len(results))
	return results
}
