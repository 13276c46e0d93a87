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

package mockserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrResourceNotFound is raised when a resource or record does not exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrDuplicateID is raised when an insert reuses an existing id.
	// The message is what json-server clients match on.
	ErrDuplicateID = errors.New("Error: Insert failed, duplicate id") //nolint:revive,stylecheck

	// ErrInvalidDatabase is raised when a seed document cannot be loaded.
	ErrInvalidDatabase = errors.New("invalid database")
)

// Record is a single JSON object held by the store.
type Record map[string]any

// ID returns the record's id in its canonical string form.
func (r Record) ID() (string, bool) {
	id, ok := r["id"]
	if !ok || id == nil {
		return "", false
	}

	return idKey(id), true
}

func idKey(id any) string {
	return fmt.Sprint(id)
}

// Store is an in-memory JSON database in the style of json-server: top level
// arrays are collections of records keyed by "id", top level objects are
// singular resources.
type Store struct {
	lock        sync.RWMutex
	collections map[string][]Record
	singulars   map[string]Record
}

// NewStore loads a store from a JSON database document.
func NewStore(data []byte) (*Store, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var document map[string]json.RawMessage
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabase, err)
	}

	s := &Store{
		collections: map[string][]Record{},
		singulars:   map[string]Record{},
	}

	for name, raw := range document {
		key := strings.ToLower(name)

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			continue
		}

		switch trimmed[0] {
		case '[':
			var records []Record
			if err := decodeNumbers(trimmed, &records); err != nil {
				return nil, fmt.Errorf("%w: collection '%s': %w", ErrInvalidDatabase, name, err)
			}

			s.collections[key] = records
		case '{':
			var record Record
			if err := decodeNumbers(trimmed, &record); err != nil {
				return nil, fmt.Errorf("%w: resource '%s': %w", ErrInvalidDatabase, name, err)
			}

			s.singulars[key] = record
		default:
			return nil, fmt.Errorf("%w: '%s' is neither an array nor an object", ErrInvalidDatabase, name)
		}
	}

	return s, nil
}

func decodeNumbers(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	return decoder.Decode(v)
}

// Get returns a whole collection or a singular resource.
func (s *Store) Get(name string) (any, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	name = strings.ToLower(name)

	if records, ok := s.collections[name]; ok {
		return cloneRecords(records), nil
	}

	if record, ok := s.singulars[name]; ok {
		return maps.Clone(record), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// Filter returns the records of a collection whose fields equal every
// query value. Parameters prefixed with an underscore are json-server
// controls and are ignored.
func (s *Store) Filter(name string, query url.Values) ([]Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	records, ok := s.collections[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	result := []Record{}

	for _, record := range records {
		if matches(record, query) {
			result = append(result, maps.Clone(record))
		}
	}

	return result, nil
}

func matches(record Record, query url.Values) bool {
	for field, values := range query {
		if strings.HasPrefix(field, "_") {
			continue
		}

		value, ok := record[field]
		if !ok {
			return false
		}

		found := false

		for _, want := range values {
			if idKey(value) == want {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// Find returns a single record from a collection.
func (s *Store) Find(name, id string) (Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	records, index, err := s.locate(name, id)
	if err != nil {
		return nil, err
	}

	return maps.Clone(records[index]), nil
}

// Insert adds a record to a collection, assigning the next numeric id when
// the record carries none.
func (s *Store) Insert(name string, record Record) (Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	name = strings.ToLower(name)

	records, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	record = maps.Clone(record)
	if record == nil {
		record = Record{}
	}

	if id, ok := record.ID(); ok {
		for _, existing := range records {
			if existingID, ok := existing.ID(); ok && existingID == id {
				return nil, ErrDuplicateID
			}
		}
	} else {
		record["id"] = nextID(records)
	}

	s.collections[name] = append(records, record)

	return maps.Clone(record), nil
}

func nextID(records []Record) json.Number {
	var highest int64

	for _, record := range records {
		id, ok := record.ID()
		if !ok {
			continue
		}

		value, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}

		highest = max(highest, value)
	}

	return json.Number(strconv.FormatInt(highest+1, 10))
}

// Patch merges fields into an existing record. The id is never changed.
func (s *Store) Patch(name, id string, fields Record) (Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	records, index, err := s.locate(name, id)
	if err != nil {
		return nil, err
	}

	updated := maps.Clone(records[index])

	for field, value := range fields {
		if field == "id" {
			continue
		}

		updated[field] = value
	}

	records[index] = updated

	return maps.Clone(updated), nil
}

// Replace overwrites an existing record, keeping its id.
func (s *Store) Replace(name, id string, fields Record) (Record, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	records, index, err := s.locate(name, id)
	if err != nil {
		return nil, err
	}

	updated := Record{}
	maps.Copy(updated, fields)
	updated["id"] = records[index]["id"]

	records[index] = updated

	return maps.Clone(updated), nil
}

// Delete removes a record from a collection.
func (s *Store) Delete(name, id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	records, index, err := s.locate(name, id)
	if err != nil {
		return err
	}

	s.collections[strings.ToLower(name)] = append(records[:index], records[index+1:]...)

	return nil
}

// locate must be called with the lock held.
func (s *Store) locate(name, id string) ([]Record, int, error) {
	records, ok := s.collections[strings.ToLower(name)]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	for i, record := range records {
		if recordID, ok := record.ID(); ok && recordID == id {
			return records, i, nil
		}
	}

	return nil, 0, fmt.Errorf("%w: %s/%s", ErrResourceNotFound, name, id)
}

func cloneRecords(records []Record) []Record {
	out := make([]Record, len(records))

	for i := range records {
		out[i] = maps.Clone(records[i])
	}

	return out
}
