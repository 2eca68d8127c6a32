package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/axle-registry/axle/pkg/dialect"
	"github.com/axle-registry/axle/pkg/registry"
)

// SchemaSource defines the minimal read surface needed to rebuild the
// index. This avoids depending on the full store interface.
type SchemaSource interface {
	ListSubjects(ctx context.Context) ([]string, error)
	GetSubject(ctx context.Context, name string) (*registry.Subject, error)
	GetSchemaByID(ctx context.Context, id int64) (*registry.SchemaRecord, error)
}

// Result is one search hit
type Result struct {
	SchemaID int64    `json:"id"`
	Dialect  string   `json:"dialect"`
	Score    float64  `json:"score"`
	Matched  []string `json:"matched"`
}

// Index is a thread-safe token index over registered schemas. Queries
// match on prefixes and substrings, so lookups scan the token sets
// rather than a term dictionary.
type Index struct {
	mu          sync.RWMutex
	tokensByID  map[int64][]string
	dialectByID map[int64]dialect.Dialect
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		tokensByID:  make(map[int64][]string),
		dialectByID: make(map[int64]dialect.Dialect),
	}
}

// Add indexes a schema record. Re-adding an already-indexed record is
// a no-op.
func (idx *Index) Add(record *registry.SchemaRecord) {
	tokens := dialect.ForDialect(record.Dialect).TokenizeForSearch(record.Canonical)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.tokensByID[record.ID]; ok {
		return
	}

	lowered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		lowered = append(lowered, strings.ToLower(token))
	}
	idx.tokensByID[record.ID] = lowered
	idx.dialectByID[record.ID] = record.Dialect
}

// Len returns the number of indexed schemas
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.tokensByID)
}

// Rebuild repopulates the index from every schema reachable through a
// subject. Called once at startup when the backing store is durable.
func (idx *Index) Rebuild(ctx context.Context, source SchemaSource) error {
	names, err := source.ListSubjects(ctx)
	if err != nil {
		return err
	}
	seen := make(map[int64]struct{})
	for _, name := range names {
		subject, err := source.GetSubject(ctx, name)
		if err != nil {
			return err
		}
		for _, slot := range subject.Slots {
			if slot.Tombstone {
				continue
			}
			if _, ok := seen[slot.RecordID]; ok {
				continue
			}
			seen[slot.RecordID] = struct{}{}
			record, err := source.GetSchemaByID(ctx, slot.RecordID)
			if err != nil {
				return err
			}
			idx.Add(record)
		}
	}
	return nil
}

// Search scores every indexed schema against the query terms and
// returns the best hits, highest score first. A zero limit means no
// limit.
func (idx *Index) Search(query string, limit int) []Result {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	results := make([]Result, 0)
	for id, tokens := range idx.tokensByID {
		var score float64
		var matched []string
		for _, term := range terms {
			best := 0.0
			var bestToken string
			for _, token := range tokens {
				if s := tokenScore(token, term); s > best {
					best = s
					bestToken = token
				}
			}
			if best > 0 {
				score += best
				matched = append(matched, bestToken)
			}
		}
		if score > 0 {
			sort.Strings(matched)
			results = append(results, Result{
				SchemaID: id,
				Dialect:  idx.dialectByID[id].String(),
				Score:    score,
				Matched:  matched,
			})
		}
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Similar returns the schemas whose token sets overlap the given
// schema's, ranked by Jaccard similarity. The schema itself is
// excluded.
func (idx *Index) Similar(id int64, limit int) ([]Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	base, ok := idx.tokensByID[id]
	if !ok {
		return nil, registry.NewNotFound("schema", "%d", id)
	}
	baseSet := make(map[string]struct{}, len(base))
	for _, token := range base {
		baseSet[token] = struct{}{}
	}

	results := make([]Result, 0)
	for otherID, tokens := range idx.tokensByID {
		if otherID == id {
			continue
		}
		otherSet := make(map[string]struct{}, len(tokens))
		for _, token := range tokens {
			otherSet[token] = struct{}{}
		}
		var shared []string
		for token := range otherSet {
			if _, ok := baseSet[token]; ok {
				shared = append(shared, token)
			}
		}
		if len(shared) == 0 {
			continue
		}
		union := len(baseSet) + len(otherSet) - len(shared)
		sort.Strings(shared)
		results = append(results, Result{
			SchemaID: otherID,
			Dialect:  idx.dialectByID[otherID].String(),
			Score:    float64(len(shared)) / float64(union),
			Matched:  shared,
		})
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].SchemaID < results[j].SchemaID
	})
}

// tokenScore rates how well a token matches one query term. Exact
// match scores highest, then prefix, then substring weighted by
// position.
func tokenScore(token, term string) float64 {
	if token == term {
		return 1.0
	}
	if strings.HasPrefix(token, term) {
		return 0.8
	}
	if i := strings.Index(token, term); i >= 0 {
		return 0.5 - float64(i)/float64(len(token))*0.3
	}
	return 0.0
}
