package store

import (
	"context"
	"sort"
	"sync"

	"shipment-tracking-service/internal/clock"
	"shipment-tracking-service/internal/model"
)

type MemoryStore struct {
	mu      sync.RWMutex
	rows    map[int64]model.Shipment
	byOrder map[string]int64
	lastID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows:    make(map[int64]model.Shipment),
		byOrder: make(map[string]int64),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, row model.Shipment) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byOrder[row.OrderNumber]; taken {
		return 0, ErrDuplicate
	}
	s.lastID++
	row.ID = s.lastID
	s.rows[row.ID] = row
	s.byOrder[row.OrderNumber] = row.ID
	return row.ID, nil
}

func (s *MemoryStore) UpdateByID(ctx context.Context, id int64, u Update) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	row.Status = u.Status
	row.CurrentLocation = u.CurrentLocation
	// always advance, even when the writer's clock lags the stored value
	next := row.UpdatedAt.Add(clock.Precision)
	if u.UpdatedAt.After(next) {
		next = u.UpdatedAt
	}
	row.UpdatedAt = next
	s.rows[id] = row
	return 1, nil
}

func (s *MemoryStore) DeleteByID(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	delete(s.rows, id)
	delete(s.byOrder, row.OrderNumber)
	return 1, nil
}

func (s *MemoryStore) FindOneByField(ctx context.Context, field Field, value string) (*model.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		id int64
		ok bool
	)
	switch field {
	case FieldOrderNumber:
		id, ok = s.byOrder[value]
	case FieldID:
		parsed, err := parseID(value)
		if err != nil {
			return nil, err
		}
		_, ok = s.rows[parsed]
		id = parsed
	default:
		return nil, ErrUnsupportedField
	}
	if !ok {
		return nil, nil
	}
	row := s.rows[id]
	return &row, nil
}

func (s *MemoryStore) ListAllOrderedByIDDesc(ctx context.Context) ([]model.Shipment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Shipment, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
