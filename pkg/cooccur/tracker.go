// Package cooccur builds weighted co-occurrence graphs from token
// sequences: each sequence is cut into fixed-size context windows and
// every pair of distinct token ids sharing a window accumulates unit edge
// weight. The resulting edge list feeds the community-detection engine
// directly.
package cooccur

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/graphmining/leiden-engine/pkg/leiden"
)

// ErrMixedIDSpaces reports an attempt to combine caller-supplied token ids
// with vocabulary-assigned ids in one tracker. The two id spaces are
// unrelated, so pairs from one must never merge with pairs from the other.
var ErrMixedIDSpaces = errors.New("cooccur: tracker cannot mix external token ids with vocabulary tokens")

type pairKey struct{ u, v int }

// idMode pins a tracker to one id space after its first document.
type idMode int

const (
	modeUnset idMode = iota
	modeExternal
	modeVocab
)

// Tracker accumulates co-occurrence weights. A tracker works in exactly
// one id space, external ids or internal vocabulary ids, fixed by the
// first document added. It is not safe for concurrent use; ProcessFiles
// runs one tracker per file and merges.
type Tracker struct {
	contextLength int
	mode          idMode
	weights       map[pairKey]float64
	vocab         map[string]int
	vocabNames    []string
	maxID         int
}

// NewTracker creates a tracker with the given context window length
// (at least 2 tokens, or no pair can ever co-occur).
func NewTracker(contextLength int) (*Tracker, error) {
	if contextLength < 2 {
		return nil, fmt.Errorf("context length must be at least 2, got %d", contextLength)
	}
	return &Tracker{
		contextLength: contextLength,
		weights:       make(map[pairKey]float64),
		vocab:         make(map[string]int),
		maxID:         -1,
	}, nil
}

// AddTokenIDs records one tokenized document. The sequence is split into
// consecutive windows of the context length; within a window each
// unordered pair of distinct ids gains weight 1, no matter how often the
// tokens repeat. Returns ErrMixedIDSpaces if the tracker already holds
// vocabulary tokens.
func (t *Tracker) AddTokenIDs(ids []int) error {
	if err := t.enterMode(modeExternal); err != nil {
		return err
	}
	t.addSequence(ids)
	return nil
}

// AddTokens records one document of string tokens, with ids assigned from
// an internal vocabulary in first-seen order. Returns ErrMixedIDSpaces if
// the tracker already holds external ids.
func (t *Tracker) AddTokens(tokens []string) error {
	if err := t.enterMode(modeVocab); err != nil {
		return err
	}
	ids := make([]int, len(tokens))
	for i, tok := range tokens {
		ids[i] = t.lookup(tok)
	}
	t.addSequence(ids)
	return nil
}

func (t *Tracker) enterMode(m idMode) error {
	if t.mode == modeUnset {
		t.mode = m
		return nil
	}
	if t.mode != m {
		return ErrMixedIDSpaces
	}
	return nil
}

func (t *Tracker) addSequence(ids []int) {
	for start := 0; start < len(ids); start += t.contextLength {
		end := start + t.contextLength
		if end > len(ids) {
			end = len(ids)
		}
		t.addWindow(ids[start:end])
	}
}

func (t *Tracker) lookup(token string) int {
	if id, ok := t.vocab[token]; ok {
		return id
	}
	id := len(t.vocabNames)
	t.vocab[token] = id
	t.vocabNames = append(t.vocabNames, token)
	return id
}

func (t *Tracker) addWindow(window []int) {
	if len(window) < 2 {
		return
	}
	uniq := make([]int, 0, len(window))
	seen := make(map[int]bool, len(window))
	for _, id := range window {
		if !seen[id] {
			seen[id] = true
			uniq = append(uniq, id)
			if id > t.maxID {
				t.maxID = id
			}
		}
	}
	sort.Ints(uniq)
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			t.weights[pairKey{uniq[i], uniq[j]}]++
		}
	}
}

// Merge folds another tracker into this one. Vocabularies are reconciled
// by token string, so merge order only affects id assignment for tokens
// unseen by the receiver. Merging trackers from different id spaces
// returns ErrMixedIDSpaces.
func (t *Tracker) Merge(other *Tracker) error {
	if other.mode == modeUnset {
		return nil
	}
	if err := t.enterMode(other.mode); err != nil {
		return err
	}
	if len(other.vocabNames) > 0 {
		remap := make([]int, len(other.vocabNames))
		for id, name := range other.vocabNames {
			remap[id] = t.lookup(name)
		}
		for key, w := range other.weights {
			u, v := remap[key.u], remap[key.v]
			if v < u {
				u, v = v, u
			}
			if u > t.maxID {
				t.maxID = u
			}
			if v > t.maxID {
				t.maxID = v
			}
			t.weights[pairKey{u, v}] += w
		}
		return nil
	}
	for key, w := range other.weights {
		t.weights[key] += w
	}
	if other.maxID > t.maxID {
		t.maxID = other.maxID
	}
	return nil
}

// NumTokens returns the size of the dense id range, max id + 1.
func (t *Tracker) NumTokens() int { return t.maxID + 1 }

// Token returns the string for a vocabulary id, when tokens were added as
// strings.
func (t *Tracker) Token(id int) (string, bool) {
	if id < 0 || id >= len(t.vocabNames) {
		return "", false
	}
	return t.vocabNames[id], true
}

// Edges returns the accumulated co-occurrence edge list sorted by
// (u, v), ready for graph construction.
func (t *Tracker) Edges() []leiden.Edge {
	edges := make([]leiden.Edge, 0, len(t.weights))
	for key, w := range t.weights {
		edges = append(edges, leiden.Edge{U: key.u, V: key.v, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].U != edges[j].U {
			return edges[i].U < edges[j].U
		}
		return edges[i].V < edges[j].V
	})
	return edges
}

// WriteTSV writes the edge list as tab-separated "u v weight" lines in
// sorted order.
func (t *Tracker) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range t.Edges() {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%g\n", e.U, e.V, e.Weight); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// document is one JSONL record: either pre-tokenized ids or raw text
// split on whitespace.
type document struct {
	Tokens []int  `json:"tokens"`
	Text   string `json:"text"`
}

// readFile accumulates one JSONL file into a fresh tracker.
func readFile(path string, contextLength int) (*Tracker, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	local, err := NewTracker(contextLength)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 16<<20)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		switch {
		case len(doc.Tokens) > 0:
			err = local.AddTokenIDs(doc.Tokens)
		case doc.Text != "":
			err = local.AddTokens(strings.Fields(doc.Text))
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return local, nil
}
