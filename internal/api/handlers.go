package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/typegrid/typegrid/pkg/buildinfo"
	"github.com/typegrid/typegrid/pkg/errors"
	"github.com/typegrid/typegrid/pkg/model"
	"github.com/typegrid/typegrid/pkg/pipeline"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Model
// =============================================================================

func (s *Server) handleGetModel(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Get(r.Context(), modelName(r))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("X-Model-Hash", pipeline.HashModel(m))
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handlePutModel(w http.ResponseWriter, r *http.Request) {
	var m model.Model
	if err := decodeJSON(w, r, &m); err != nil {
		writeError(w, err)
		return
	}
	name := modelName(r)
	if m.Name == "" {
		m.Name = name
	}
	if err := s.store.Put(r.Context(), name, &m); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("model replaced", "model", name,
		"types", len(m.CardTypes), "relations", len(m.Relations))
	w.Header().Set("X-Model-Hash", pipeline.HashModel(&m))
	writeJSON(w, http.StatusOK, &m)
}

// withModel runs fn against the named model and persists the result. When
// create is true, a missing model is bootstrapped empty so the first POST
// against a fresh store succeeds; update and delete paths pass false and
// surface the store's not-found error instead.
func (s *Server) withModel(ctx context.Context, name string, create bool, fn func(m *model.Model) error) (*model.Model, error) {
	m, err := s.store.Get(ctx, name)
	if err != nil {
		if !create || !errors.NotFound(err) {
			return nil, err
		}
		m = &model.Model{Name: name}
	}
	if err := fn(m); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, name, m); err != nil {
		return nil, err
	}
	return m, nil
}

// =============================================================================
// Card Types
// =============================================================================

func (s *Server) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var t model.CardType
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, err)
		return
	}
	var key string
	m, err := s.withModel(r.Context(), modelName(r), true, func(m *model.Model) error {
		if t.Key != "" {
			if _, exists := m.Type(t.Key); exists {
				return errors.New(errors.ErrCodeDuplicateKey, "card type already exists: %s", t.Key)
			}
		}
		key = m.UpsertType(t)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("card type created", "model", modelName(r), "key", key)
	stored, _ := m.Type(key)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var t model.CardType
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, err)
		return
	}
	t.Key = key // the path wins over any key in the body
	m, err := s.withModel(r.Context(), modelName(r), false, func(m *model.Model) error {
		if _, exists := m.Type(key); !exists {
			return errors.New(errors.ErrCodeTypeNotFound, "no card type %s", key)
		}
		m.UpsertType(t)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	stored, _ := m.Type(key)
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	_, err := s.withModel(r.Context(), modelName(r), false, func(m *model.Model) error {
		if !m.DeleteType(key) {
			return errors.New(errors.ErrCodeTypeNotFound, "no card type %s", key)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("card type deleted", "model", modelName(r), "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Relations
// =============================================================================

func (s *Server) handleCreateRelation(w http.ResponseWriter, r *http.Request) {
	var rel model.RelationType
	if err := decodeJSON(w, r, &rel); err != nil {
		writeError(w, err)
		return
	}
	var key string
	m, err := s.withModel(r.Context(), modelName(r), true, func(m *model.Model) error {
		if rel.Key != "" {
			if _, exists := m.Relation(rel.Key); exists {
				return errors.New(errors.ErrCodeDuplicateKey, "relation already exists: %s", rel.Key)
			}
		}
		key = m.UpsertRelation(rel)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("relation created", "model", modelName(r), "key", key)
	stored, _ := m.Relation(key)
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleUpdateRelation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var rel model.RelationType
	if err := decodeJSON(w, r, &rel); err != nil {
		writeError(w, err)
		return
	}
	rel.Key = key
	m, err := s.withModel(r.Context(), modelName(r), false, func(m *model.Model) error {
		if _, exists := m.Relation(key); !exists {
			return errors.New(errors.ErrCodeRelationNotFound, "no relation %s", key)
		}
		m.UpsertRelation(rel)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	stored, _ := m.Relation(key)
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	_, err := s.withModel(r.Context(), modelName(r), false, func(m *model.Model) error {
		if !m.DeleteRelation(key) {
			return errors.New(errors.ErrCodeRelationNotFound, "no relation %s", key)
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("relation deleted", "model", modelName(r), "key", key)
	w.WriteHeader(http.StatusNoContent)
}
