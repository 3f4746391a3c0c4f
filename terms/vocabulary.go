package terms

import (
	"sync"

	"github.com/oarkflow/micromap"
	"github.com/oarkflow/micromap/storage/memory"
)

// Vocabulary is a named collection of concepts keyed by canonical URI.
//
// Each concept carries an annotation slot backed by a single-entry map:
// across real vocabularies nearly every concept has zero or one annotation,
// which is exactly the population profile micromap exists for. A second
// distinct annotation key surfaces micromap.ErrCapacityExceeded to the
// caller.
type Vocabulary struct {
	name     string
	concepts *memory.Map[string, *Concept]

	// annMu guards the micromap values, which carry no locking of their own.
	annMu       sync.Mutex
	annotations *memory.Map[string, *micromap.Map[string, string]]
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary(name string) *Vocabulary {
	return &Vocabulary{
		name:        name,
		concepts:    memory.New[string, *Concept](),
		annotations: memory.New[string, *micromap.Map[string, string]](),
	}
}

// Name returns the vocabulary name.
func (v *Vocabulary) Name() string { return v.name }

// Register adds or replaces a concept, keyed by its canonical URI.
func (v *Vocabulary) Register(c *Concept) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return v.concepts.Set(c.URI(), c)
}

// Resolve looks a concept up by canonical URI.
func (v *Vocabulary) Resolve(uri string) (*Concept, bool) {
	return v.concepts.Get(uri)
}

// ResolveCode looks a concept up by coding system and code. It scans the
// vocabulary; URI lookup is the fast path.
func (v *Vocabulary) ResolveCode(codeSystem, code string) (*Concept, bool) {
	var found *Concept
	v.concepts.ForEach(func(_ string, c *Concept) bool {
		if c.CodeSystem() == codeSystem && c.Code() == code {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// Remove deletes a concept and its annotations.
func (v *Vocabulary) Remove(uri string) (*Concept, bool) {
	c, ok := v.concepts.Get(uri)
	if !ok {
		return nil, false
	}
	v.concepts.Del(uri)
	v.annotations.Del(uri)
	return c, true
}

// Concepts returns all registered concepts.
func (v *Vocabulary) Concepts() []*Concept {
	return v.concepts.Values()
}

// Len returns the number of registered concepts.
func (v *Vocabulary) Len() int {
	return v.concepts.Size()
}

// Annotate attaches the single annotation a concept may carry. Re-annotating
// with the same key replaces the value; a second distinct key fails with
// micromap.ErrCapacityExceeded, and callers needing more should hold their
// own general-purpose map instead.
func (v *Vocabulary) Annotate(uri, key, value string) error {
	if _, ok := v.concepts.Get(uri); !ok {
		return ErrUnknownConcept
	}
	v.annMu.Lock()
	defer v.annMu.Unlock()
	ann, ok := v.annotations.Get(uri)
	if !ok {
		ann = micromap.New[string, string]()
		v.annotations.Set(uri, ann)
	}
	_, _, err := ann.Put(key, value)
	return err
}

// Annotation returns the annotation stored under key for the concept.
func (v *Vocabulary) Annotation(uri, key string) (string, bool) {
	v.annMu.Lock()
	defer v.annMu.Unlock()
	ann, ok := v.annotations.Get(uri)
	if !ok {
		return "", false
	}
	return ann.Get(key)
}

// ClearAnnotation empties a concept's annotation slot.
func (v *Vocabulary) ClearAnnotation(uri string) {
	v.annMu.Lock()
	defer v.annMu.Unlock()
	if ann, ok := v.annotations.Get(uri); ok {
		ann.Clear()
	}
}

// Taxonomy is a vocabulary whose concepts are arranged in a broader/narrower
// hierarchy.
type Taxonomy struct {
	*Vocabulary

	mu       sync.RWMutex
	broader  map[string][]string
	narrower map[string][]string
}

// NewTaxonomy creates an empty taxonomy.
func NewTaxonomy(name string) *Taxonomy {
	return &Taxonomy{
		Vocabulary: NewVocabulary(name),
		broader:    make(map[string][]string),
		narrower:   make(map[string][]string),
	}
}

// AddSubConceptOf records that child is a narrower concept of parent. Both
// concepts must already be registered.
func (t *Taxonomy) AddSubConceptOf(child, parent ConceptDescriptor) error {
	if _, ok := t.Resolve(child.URI()); !ok {
		return ErrUnknownConcept
	}
	if _, ok := t.Resolve(parent.URI()); !ok {
		return ErrUnknownConcept
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !contains(t.broader[child.URI()], parent.URI()) {
		t.broader[child.URI()] = append(t.broader[child.URI()], parent.URI())
		t.narrower[parent.URI()] = append(t.narrower[parent.URI()], child.URI())
	}
	return nil
}

// Broader returns the URIs of the direct parents of the concept.
func (t *Taxonomy) Broader(uri string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.broader[uri]...)
}

// Narrower returns the URIs of the direct children of the concept.
func (t *Taxonomy) Narrower(uri string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.narrower[uri]...)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
