package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dukahq/go-duka/consts"
	"github.com/dukahq/go-duka/storage"
)

// Store keeps the locally selected cart lines in client-side storage.
//
// It is the client-persisted counterpart of the remote cart: product
// screens add lines here, the checkout flow reads and finally clears it
// after a successful payment.
type Store struct {
	mu  sync.Mutex
	kv  storage.Store
	key string
}

// NewStore wraps kv under the default cart storage key.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv, key: consts.StorageKeyCart}
}

func (s *Store) load() ([]Line, error) {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	if !ok || len(raw) == 0 {
		return nil, nil
	}
	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("cart: parse stored cart: %w", err)
	}
	return lines, nil
}

func (s *Store) save(lines []Line) error {
	if len(lines) == 0 {
		if err := s.kv.Delete(s.key); err != nil {
			return fmt.Errorf("cart: clear: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

// Add puts line into the cart, merging with an existing line for the
// same (product, size) by incrementing its quantity.
func (s *Store) Add(line Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	lines, err := s.load()
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == line.ProductID && lines[i].SelectedSize == line.SelectedSize {
			lines[i].Quantity += line.Quantity
			return s.save(lines)
		}
	}
	return s.save(append(lines, line))
}

// ChangeQuantity adjusts the quantity of a line by delta. A line whose
// quantity drops to zero or below is removed.
func (s *Store) ChangeQuantity(productID int64, size string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].SelectedSize == size {
			lines[i].Quantity += delta
			if lines[i].Quantity <= 0 {
				lines = append(lines[:i], lines[i+1:]...)
			}
			return s.save(lines)
		}
	}
	return nil
}

// Remove drops the line for (product, size) regardless of quantity.
func (s *Store) Remove(productID int64, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].SelectedSize == size {
			lines = append(lines[:i], lines[i+1:]...)
			return s.save(lines)
		}
	}
	return nil
}

// Replace overwrites the whole cart, e.g. when syncing from the remote
// cart endpoint.
func (s *Store) Replace(lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(lines)
}

// Lines returns the current cart contents.
func (s *Store) Lines() ([]Line, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Total is the sum of unit price times quantity over all lines.
func (s *Store) Total() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return 0, err
	}
	return Total(lines), nil
}

// Count is the total number of items across all lines.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.load()
	if err != nil {
		return 0, err
	}
	return Count(lines), nil
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(nil)
}
