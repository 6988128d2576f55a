package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/typegrid/typegrid/pkg/diagram"
	"github.com/typegrid/typegrid/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

// Field kinds supported by the admin surface.
const (
	FieldText   = "text"
	FieldNumber = "number"
	FieldDate   = "date"
	FieldSelect = "select"
	FieldRef    = "ref"
)

// Generated key prefixes. Keys must start with a letter, so raw UUIDs
// (which may start with a digit) are not valid on their own.
const (
	typeKeyPrefix     = "ct-"
	relationKeyPrefix = "rel-"
)

// =============================================================================
// Model - Typed Metamodel Serialization
// =============================================================================

// Model is the canonical serialization format for a typegrid metamodel.
// Used for manifests, API responses, storage, and caching.
//
// The format is human-readable and designed for round-trip fidelity:
// load → edit → save → re-load produces identical results.
type Model struct {
	Name       string         `json:"name,omitempty" bson:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Categories []string       `json:"categories,omitempty" bson:"categories,omitempty" toml:"categories,omitempty" yaml:"categories,omitempty"`
	CardTypes  []CardType     `json:"card_types" bson:"card_types" toml:"card_types" yaml:"card_types"`
	Relations  []RelationType `json:"relations,omitempty" bson:"relations,omitempty" toml:"relations,omitempty" yaml:"relations,omitempty"`
}

// CardType describes one entity type in the metamodel.
type CardType struct {
	Key      string  `json:"key" bson:"key" toml:"key" yaml:"key"`
	Name     string  `json:"name,omitempty" bson:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Category string  `json:"category,omitempty" bson:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty"`
	Color    string  `json:"color,omitempty" bson:"color,omitempty" toml:"color,omitempty" yaml:"color,omitempty"`
	Hidden   bool    `json:"hidden,omitempty" bson:"hidden,omitempty" toml:"hidden,omitempty" yaml:"hidden,omitempty"`
	Fields   []Field `json:"fields,omitempty" bson:"fields,omitempty" toml:"fields,omitempty" yaml:"fields,omitempty"`
}

// DisplayName returns the name if set, otherwise the key.
func (t *CardType) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Key
}

// Field describes one attribute on a card type.
type Field struct {
	Key      string `json:"key" bson:"key" toml:"key" yaml:"key"`
	Name     string `json:"name,omitempty" bson:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Kind     string `json:"kind,omitempty" bson:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Required bool   `json:"required,omitempty" bson:"required,omitempty" toml:"required,omitempty" yaml:"required,omitempty"`
}

// RelationType describes one directed relation between two card types.
// Name labels the source→target reading, ReverseName the target→source
// reading ("supports" / "is supported by").
type RelationType struct {
	Key         string `json:"key" bson:"key" toml:"key" yaml:"key"`
	Name        string `json:"name,omitempty" bson:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	ReverseName string `json:"reverse_name,omitempty" bson:"reverse_name,omitempty" toml:"reverse_name,omitempty" yaml:"reverse_name,omitempty"`
	Source      string `json:"source" bson:"source" toml:"source" yaml:"source"`
	Target      string `json:"target" bson:"target" toml:"target" yaml:"target"`
	Cardinality string `json:"cardinality,omitempty" bson:"cardinality,omitempty" toml:"cardinality,omitempty" yaml:"cardinality,omitempty"`
}

// DisplayName returns the forward label if set, otherwise the key.
func (r *RelationType) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Key
}

// =============================================================================
// Lookup and Mutation
// =============================================================================

// CategoriesOrDefault returns the model's declared layer order, falling
// back to [diagram.DefaultConfig]'s categories when none are declared.
func (m *Model) CategoriesOrDefault() []string {
	if len(m.Categories) > 0 {
		return m.Categories
	}
	return diagram.DefaultConfig().Categories
}

// Type returns the card type with the given key, or false.
func (m *Model) Type(key string) (*CardType, bool) {
	for i := range m.CardTypes {
		if m.CardTypes[i].Key == key {
			return &m.CardTypes[i], true
		}
	}
	return nil, false
}

// Relation returns the relation type with the given key, or false.
func (m *Model) Relation(key string) (*RelationType, bool) {
	for i := range m.Relations {
		if m.Relations[i].Key == key {
			return &m.Relations[i], true
		}
	}
	return nil, false
}

// UpsertType replaces the card type with the same key, or appends it.
// A blank key receives a generated one. Returns the stored key.
func (m *Model) UpsertType(t CardType) string {
	if t.Key == "" {
		t.Key = typeKeyPrefix + uuid.NewString()
	}
	for i := range m.CardTypes {
		if m.CardTypes[i].Key == t.Key {
			m.CardTypes[i] = t
			return t.Key
		}
	}
	m.CardTypes = append(m.CardTypes, t)
	return t.Key
}

// DeleteType removes the card type with the given key and every relation
// that references it. Returns false if no such type exists.
func (m *Model) DeleteType(key string) bool {
	idx := -1
	for i := range m.CardTypes {
		if m.CardTypes[i].Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	m.CardTypes = append(m.CardTypes[:idx], m.CardTypes[idx+1:]...)

	kept := m.Relations[:0]
	for _, r := range m.Relations {
		if r.Source != key && r.Target != key {
			kept = append(kept, r)
		}
	}
	m.Relations = kept
	return true
}

// UpsertRelation replaces the relation with the same key, or appends it.
// A blank key receives a generated one. Returns the stored key.
func (m *Model) UpsertRelation(r RelationType) string {
	if r.Key == "" {
		r.Key = relationKeyPrefix + uuid.NewString()
	}
	for i := range m.Relations {
		if m.Relations[i].Key == r.Key {
			m.Relations[i] = r
			return r.Key
		}
	}
	m.Relations = append(m.Relations, r)
	return r.Key
}

// DeleteRelation removes the relation with the given key.
// Returns false if no such relation exists.
func (m *Model) DeleteRelation(key string) bool {
	for i := range m.Relations {
		if m.Relations[i].Key == key {
			m.Relations = append(m.Relations[:i], m.Relations[i+1:]...)
			return true
		}
	}
	return false
}

// EnsureKeys assigns generated keys to card types and relations whose key
// is blank. Manifest authors usually write keys by hand; the admin API
// creates entries without them.
func (m *Model) EnsureKeys() {
	for i := range m.CardTypes {
		if m.CardTypes[i].Key == "" {
			m.CardTypes[i].Key = typeKeyPrefix + uuid.NewString()
		}
	}
	for i := range m.Relations {
		if m.Relations[i].Key == "" {
			m.Relations[i].Key = relationKeyPrefix + uuid.NewString()
		}
	}
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural rules that make a model unusable: key grammar,
// duplicate keys, whitespace-only names, malformed categories and
// cardinalities, and relations without endpoints.
//
// Dangling endpoint references are deliberately NOT errors here: the layout
// engine drops such edges, and [Model.Lint] reports them as warnings.
func (m *Model) Validate() error {
	if m.Name != "" {
		if err := errors.ValidateModelName(m.Name); err != nil {
			return err
		}
	}
	for _, c := range m.Categories {
		if err := errors.ValidateCategory(c); err != nil {
			return err
		}
	}

	seenTypes := make(map[string]bool, len(m.CardTypes))
	for i := range m.CardTypes {
		t := &m.CardTypes[i]
		if err := errors.ValidateKey(t.Key); err != nil {
			return err
		}
		if seenTypes[t.Key] {
			return errors.New(errors.ErrCodeDuplicateKey, "duplicate card type key: %s", t.Key)
		}
		seenTypes[t.Key] = true
		if err := validateName(t.Name, "card type "+t.Key); err != nil {
			return err
		}
		if t.Category != "" {
			if err := errors.ValidateCategory(t.Category); err != nil {
				return err
			}
		}
		seenFields := make(map[string]bool, len(t.Fields))
		for _, f := range t.Fields {
			if err := errors.ValidateKey(f.Key); err != nil {
				return err
			}
			if seenFields[f.Key] {
				return errors.New(errors.ErrCodeDuplicateKey,
					"duplicate field key on %s: %s", t.Key, f.Key)
			}
			seenFields[f.Key] = true
		}
	}

	seenRelations := make(map[string]bool, len(m.Relations))
	for i := range m.Relations {
		r := &m.Relations[i]
		if err := errors.ValidateKey(r.Key); err != nil {
			return err
		}
		if seenRelations[r.Key] {
			return errors.New(errors.ErrCodeDuplicateKey, "duplicate relation key: %s", r.Key)
		}
		seenRelations[r.Key] = true
		if err := validateName(r.Name, "relation "+r.Key); err != nil {
			return err
		}
		if r.Source == "" || r.Target == "" {
			return errors.New(errors.ErrCodeInvalidModel,
				"relation %s is missing an endpoint", r.Key)
		}
		if err := errors.ValidateCardinality(r.Cardinality); err != nil {
			return err
		}
	}
	return nil
}

// validateName rejects whitespace-only names. Empty is fine: display
// falls back to the key.
func validateName(name, what string) error {
	if name != "" && strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeInvalidModel, "%s has a blank name", what)
	}
	return nil
}

// Lint reports non-fatal problems: relations whose endpoints do not
// resolve, relations that will not be drawn, relations with no label.
// The returned messages are in model order.
func (m *Model) Lint() []string {
	types := make(map[string]*CardType, len(m.CardTypes))
	for i := range m.CardTypes {
		types[m.CardTypes[i].Key] = &m.CardTypes[i]
	}

	var warnings []string
	for i := range m.Relations {
		r := &m.Relations[i]
		src, srcOK := types[r.Source]
		dst, dstOK := types[r.Target]
		if !srcOK {
			warnings = append(warnings,
				fmt.Sprintf("relation %s: unknown source type %q", r.Key, r.Source))
		}
		if !dstOK {
			warnings = append(warnings,
				fmt.Sprintf("relation %s: unknown target type %q", r.Key, r.Target))
		}
		if srcOK && dstOK && (src.Hidden || dst.Hidden) {
			warnings = append(warnings,
				fmt.Sprintf("relation %s: endpoint is hidden, edge will not be drawn", r.Key))
		}
		if r.Name == "" && r.ReverseName == "" {
			warnings = append(warnings,
				fmt.Sprintf("relation %s: no forward or reverse label", r.Key))
		}
	}
	return warnings
}

// =============================================================================
// Snapshot - Layout Input
// =============================================================================

// Snapshot converts the model into the layout engine's input: one node per
// card type and one edge per relation, both in model order. Hidden types
// and unresolved endpoints pass through unchanged; the engine excludes
// them itself.
func (m *Model) Snapshot() ([]diagram.Node, []diagram.Edge) {
	nodes := make([]diagram.Node, len(m.CardTypes))
	for i, t := range m.CardTypes {
		nodes[i] = diagram.Node{
			Key:      t.Key,
			Category: t.Category,
			Hidden:   t.Hidden,
		}
	}
	edges := make([]diagram.Edge, len(m.Relations))
	for i, r := range m.Relations {
		edges[i] = diagram.Edge{
			Key:          r.Key,
			Source:       r.Source,
			Target:       r.Target,
			Label:        r.Name,
			ReverseLabel: r.ReverseName,
		}
	}
	return nodes, edges
}
