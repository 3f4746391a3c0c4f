// Package terms models coded concepts: codes drawn from a named coding
// system, identified by a canonical URI. Concept identity and equality
// derive from the URI alone; every other field is descriptive.
package terms

import (
	"errors"
	"strings"

	"github.com/oarkflow/json"
)

var (
	ErrEmptyURI       = errors.New("terms: concept has no canonical URI")
	ErrUnknownConcept = errors.New("terms: unknown concept")
)

// ConceptDescriptor is the read contract for a coded concept.
type ConceptDescriptor interface {
	Code() string
	DisplayName() string
	CodeSystem() string
	CodeSystemName() string
	URI() string
}

var _ ConceptDescriptor = (*Concept)(nil)

// Concept is a coded concept. Two concepts are equal iff their canonical
// URIs are equal, regardless of code, display name, or coding system.
type Concept struct {
	code           string
	displayName    string
	codeSystem     string
	codeSystemName string
	uri            string
}

// NewConcept builds a concept with an explicit canonical URI.
func NewConcept(uri, code, displayName, codeSystem, codeSystemName string) *Concept {
	return &Concept{
		code:           code,
		displayName:    displayName,
		codeSystem:     codeSystem,
		codeSystemName: codeSystemName,
		uri:            uri,
	}
}

// NewConceptInSystem builds a concept whose canonical URI is the coding
// system URI with the code appended.
func NewConceptInSystem(code, displayName, systemURI, codeSystem, codeSystemName string) *Concept {
	return NewConcept(systemURI+code, code, displayName, codeSystem, codeSystemName)
}

func (c *Concept) Code() string { return c.code }

func (c *Concept) DisplayName() string { return c.displayName }

func (c *Concept) CodeSystem() string { return c.codeSystem }

func (c *Concept) CodeSystemName() string { return c.codeSystemName }

func (c *Concept) URI() string { return c.uri }

func (c *Concept) SetCode(code string) { c.code = code }

func (c *Concept) SetDisplayName(displayName string) { c.displayName = displayName }

func (c *Concept) SetCodeSystem(codeSystem string) { c.codeSystem = codeSystem }

func (c *Concept) SetCodeSystemName(name string) { c.codeSystemName = name }

// SetURI assigns the canonical URI. Changing it changes the concept's
// identity; containers keyed on the old URI will no longer match it.
func (c *Concept) SetURI(uri string) { c.uri = uri }

// Equal reports identifier equality: the canonical URIs match. All other
// fields are ignored.
func (c *Concept) Equal(other ConceptDescriptor) bool {
	if other == nil {
		return false
	}
	return c.uri == other.URI()
}

// Key returns the identity key for hash-based containers, which is the
// canonical URI.
func (c *Concept) Key() string {
	return c.uri
}

// EqualDescriptors is the equality function to hand to micromap.NewFunc when
// concepts are used as keys or values.
func EqualDescriptors(a, b *Concept) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

// Validate checks the fields a concept must carry to be registered.
func (c *Concept) Validate() error {
	if strings.TrimSpace(c.uri) == "" {
		return ErrEmptyURI
	}
	return nil
}

type conceptJSON struct {
	URI            string `json:"uri"`
	Code           string `json:"code,omitempty"`
	DisplayName    string `json:"displayName,omitempty"`
	CodeSystem     string `json:"codeSystem,omitempty"`
	CodeSystemName string `json:"codeSystemName,omitempty"`
}

func (c *Concept) MarshalJSON() ([]byte, error) {
	return json.Marshal(conceptJSON{
		URI:            c.uri,
		Code:           c.code,
		DisplayName:    c.displayName,
		CodeSystem:     c.codeSystem,
		CodeSystemName: c.codeSystemName,
	})
}

func (c *Concept) UnmarshalJSON(data []byte) error {
	var raw conceptJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.uri = raw.URI
	c.code = raw.Code
	c.displayName = raw.DisplayName
	c.codeSystem = raw.CodeSystem
	c.codeSystemName = raw.CodeSystemName
	return nil
}
