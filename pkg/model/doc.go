// Package model defines the typed metamodel that typegrid diagrams: card
// types (entity types with fields, grouped into categories) and the
// directed relation types between them.
//
// # Architecture
//
// The package sits between user-authored manifests and the layout engine:
//
//   - [Model], [CardType], [RelationType]: the metamodel (this package)
//   - pkg/diagram: consumes [Model.Snapshot] output and computes geometry
//   - internal/api: edits models through [Store] backends
//
// # Manifests
//
// Models are authored as manifests in TOML, JSON, or YAML; the format is
// derived from the file extension:
//
//	m, err := model.Load("enterprise.toml")
//	err = model.Save("enterprise.yaml", m)
//
// All three formats round-trip: load → save → load produces an identical
// model. [Read] and [Write] are the io.Reader/io.Writer counterparts.
//
// # Validation
//
// [Model.Validate] enforces structural rules (key grammar, duplicate keys,
// endpoint presence) and fails loading. [Model.Lint] reports advisory
// problems (unresolved endpoints, unlabeled relations) that the layout
// engine tolerates by dropping the affected edges.
//
// # Storage
//
// [Store] abstracts persistence for the admin surface. [FileStore] keeps
// JSON documents in a directory; [MongoStore] keeps one document per model
// in a collection. Both assign generated keys to entries created without
// one.
//
// # Concurrency
//
// Model values are plain data: safe for concurrent reads, not concurrent
// writes. Stores are safe for concurrent use.
package model
