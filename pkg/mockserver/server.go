/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package mockserver implements the JSON backed REST server the API test
// suites run against. It mirrors the json-server behaviour the suites rely
// on: collections and singular resources loaded from a database document,
// field filtering, id assignment and the duplicate id insert failure.
package mockserver

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
)

//go:embed db.json
var defaultDatabase []byte

// DefaultDatabase returns a copy of the seed database: posts 1, 2, 28 and 29,
// one comment and a profile.
func DefaultDatabase() []byte {
	return bytes.Clone(defaultDatabase)
}

// Options configure a Server.
type Options struct {
	// Database is the seed document, DefaultDatabase when empty.
	Database []byte
	// Validate enables OpenAPI validation of Posts requests.
	Validate bool
	// Logger receives request logs.
	Logger logr.Logger
}

// Server is an http.Handler serving a Store.
type Server struct {
	store   *Store
	logger  logr.Logger
	handler http.Handler
}

// New builds a server from the given options.
func New(options *Options) (*Server, error) {
	database := options.Database
	if len(database) == 0 {
		database = defaultDatabase
	}

	store, err := NewStore(database)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:  store,
		logger: options.Logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.logging)
	router.Use(caseInsensitive)

	if options.Validate {
		v, err := newValidator()
		if err != nil {
			return nil, err
		}

		router.Use(v.middleware)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, Record{})
	})

	router.Get("/{resource}", s.getResource)
	router.Post("/{resource}", s.createRecord)
	router.Get("/{resource}/{id}", s.getRecord)
	router.Patch("/{resource}/{id}", s.patchRecord)
	router.Put("/{resource}/{id}", s.replaceRecord)
	router.Delete("/{resource}/{id}", s.deleteRecord)

	s.handler = router

	return s, nil
}

// Store exposes the backing store so callers can inspect state.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		writer := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(writer, r.WithContext(logr.NewContext(r.Context(), s.logger)))

		s.logger.V(1).Info("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", writer.Status(),
			"duration", time.Since(start),
			"requestID", r.Header.Get("X-Request-Id"),
			"traceparent", r.Header.Get("Traceparent"),
		)
	})
}

// caseInsensitive folds the request path to lower case, json-server runs on
// Express whose routing ignores case, so clients address "/Posts" and
// "/posts" interchangeably. The raw path is folded too so an escaped slash
// stays inside its segment.
func caseInsensitive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		r.URL.RawPath = strings.ToLower(r.URL.RawPath)

		next.ServeHTTP(w, r)
	})
}

func (s *Server) getResource(w http.ResponseWriter, r *http.Request) {
	resource := chi.URLParam(r, "resource")

	if query := r.URL.Query(); len(query) > 0 {
		records, err := s.store.Filter(resource, query)
		if err == nil {
			writeJSON(w, http.StatusOK, records)
			return
		}

		// Singular resources ignore the query string.
		if !errors.Is(err, ErrResourceNotFound) {
			writeStoreError(w, err)
			return
		}
	}

	value, err := s.store.Get(resource)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, value)
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.store.Find(chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) createRecord(w http.ResponseWriter, r *http.Request) {
	log := logr.FromContextOrDiscard(r.Context())

	resource := chi.URLParam(r, "resource")

	body, err := readRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.Insert(resource, body)
	if err != nil {
		log.Info("insert failed", "resource", resource, "error", err.Error())
		writeStoreError(w, err)

		return
	}

	id, _ := record.ID()
	log.Info("record created", "resource", resource, "id", id)

	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) patchRecord(w http.ResponseWriter, r *http.Request) {
	body, err := readRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.Patch(chi.URLParam(r, "resource"), chi.URLParam(r, "id"), body)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) replaceRecord(w http.ResponseWriter, r *http.Request) {
	body, err := readRecord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, err := s.store.Replace(chi.URLParam(r, "resource"), chi.URLParam(r, "id"), body)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (s *Server) deleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "resource"), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Record{})
}

var errNotAnObject = errors.New("request body must be a JSON object")

func readRecord(r *http.Request) (Record, error) {
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var record Record
	if err := decoder.Decode(&record); err != nil {
		return nil, err
	}

	if record == nil {
		return nil, errNotAnObject
	}

	return record, nil
}

func writeStoreError(w http.ResponseWriter, err error) {
	// json-server reports duplicate ids, like any other failure, as a 500.
	if errors.Is(err, ErrResourceNotFound) {
		writeJSON(w, http.StatusNotFound, Record{})
		return
	}

	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
