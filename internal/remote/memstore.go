package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "moneta/internal/errors"
)

// memRow pairs a stored row with its insertion sequence so ordering stays
// stable when two rows share a created_at tick.
type memRow struct {
	seq int
	row map[string]interface{}
}

// MemStore is an in-process Store used for unit tests and local-only mode.
// It supports real change notification and per-operation failure injection.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]memRow
	nextSeq     int
	subs        map[string]map[int]func()
	nextSubID   int

	insertErr error
	listErr   error
	updateErr error
	deleteErr error
	pingErr   error
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string][]memRow),
		subs:        make(map[string]map[int]func()),
	}
}

// FailInserts makes every subsequent Insert return err (nil restores normal
// behavior).
func (s *MemStore) FailInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
}

// FailLists makes every subsequent List return err.
func (s *MemStore) FailLists(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErr = err
}

// FailAll makes every subsequent operation return err.
func (s *MemStore) FailAll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertErr = err
	s.listErr = err
	s.updateErr = err
	s.deleteErr = err
	s.pingErr = err
}

// List implements Store.
func (s *MemStore) List(ctx context.Context, collection string, orderBy Order) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}

	rows := make([]memRow, len(s.collections[collection]))
	copy(rows, s.collections[collection])

	if orderBy.Field != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a := fmt.Sprintf("%v", rows[i].row[orderBy.Field])
			b := fmt.Sprintf("%v", rows[j].row[orderBy.Field])
			if a == b {
				if orderBy.Descending {
					return rows[i].seq > rows[j].seq
				}
				return rows[i].seq < rows[j].seq
			}
			if orderBy.Descending {
				return a > b
			}
			return a < b
		})
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		raw, err := json.Marshal(r.row)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternal, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Insert implements Store. The server assigns the id and created_at.
func (s *MemStore) Insert(ctx context.Context, collection string, row Row) (Row, error) {
	s.mu.Lock()
	if s.insertErr != nil {
		err := s.insertErr
		s.mu.Unlock()
		return nil, err
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(row, &decoded); err != nil {
		s.mu.Unlock()
		return nil, apperrors.Wrap(apperrors.ErrRemoteRejected, err)
	}
	decoded["id"] = uuid.NewString()
	if _, ok := decoded["created_at"]; !ok || decoded["created_at"] == "" {
		decoded["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}

	s.nextSeq++
	s.collections[collection] = append(s.collections[collection], memRow{seq: s.nextSeq, row: decoded})

	stored, err := json.Marshal(decoded)
	s.mu.Unlock()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}

	s.notify(collection)
	return stored, nil
}

// Update implements Store.
func (s *MemStore) Update(ctx context.Context, collection, id string, patch Row) error {
	s.mu.Lock()
	if s.updateErr != nil {
		err := s.updateErr
		s.mu.Unlock()
		return err
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(patch, &fields); err != nil {
		s.mu.Unlock()
		return apperrors.Wrap(apperrors.ErrRemoteRejected, err)
	}

	for i, r := range s.collections[collection] {
		if r.row["id"] == id {
			for k, v := range fields {
				if k == "id" {
					continue
				}
				s.collections[collection][i].row[k] = v
			}
			s.mu.Unlock()
			s.notify(collection)
			return nil
		}
	}
	s.mu.Unlock()
	return apperrors.WithMessage(apperrors.ErrRemoteRejected, fmt.Sprintf("no row %q in %s", id, collection))
}

// Delete implements Store. Deleting an absent row is not an error.
func (s *MemStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	if s.deleteErr != nil {
		err := s.deleteErr
		s.mu.Unlock()
		return err
	}

	rows := s.collections[collection]
	kept := rows[:0]
	for _, r := range rows {
		if r.row["id"] != id {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// DeleteWhere implements Store.
func (s *MemStore) DeleteWhere(ctx context.Context, collection, field, value string) error {
	s.mu.Lock()
	if s.deleteErr != nil {
		err := s.deleteErr
		s.mu.Unlock()
		return err
	}

	rows := s.collections[collection]
	kept := rows[:0]
	for _, r := range rows {
		if fmt.Sprintf("%v", r.row[field]) != value {
			kept = append(kept, r)
		}
	}
	s.collections[collection] = kept
	s.mu.Unlock()

	s.notify(collection)
	return nil
}

// Subscribe implements Store with real push notification.
func (s *MemStore) Subscribe(collection string, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[collection] == nil {
		s.subs[collection] = make(map[int]func())
	}
	s.nextSubID++
	id := s.nextSubID
	s.subs[collection][id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[collection], id)
	}
}

// Ping implements Store.
func (s *MemStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pingErr
}

// Count returns the number of rows in a collection.
func (s *MemStore) Count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[collection])
}

func (s *MemStore) notify(collection string) {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs[collection]))
	for _, fn := range s.subs[collection] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
