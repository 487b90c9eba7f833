package house

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Store is the registry of houses keyed by address. It is safe for
// concurrent use.
type Store struct {
	mu     sync.RWMutex
	houses map[string]*House
}

func NewStore() *Store {
	return &Store{houses: make(map[string]*House)}
}

// Add validates h and registers it, replacing any house at the same address.
func (s *Store) Add(h *House) error {
	if err := h.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houses[h.Address] = h
	return nil
}

func (s *Store) Get(address string) (*House, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.houses[address]
	return h, ok
}

// Delete removes the house at address and reports whether it existed.
func (s *Store) Delete(address string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.houses[address]; !ok {
		return false
	}
	delete(s.houses, address)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.houses)
}

// Addresses returns every registered address in sorted order.
func (s *Store) Addresses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addrs := lo.Keys(s.houses)
	sort.Strings(addrs)
	return addrs
}

// PrintAddresses writes a table of all houses with their estimated price.
func (s *Store) PrintAddresses(w io.Writer) {
	fmt.Fprintln(w, "Addresses of all houses:")
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Address", "Rooms", "House Price"})
	for _, addr := range s.Addresses() {
		h, ok := s.Get(addr)
		if !ok {
			continue
		}
		price := "-"
		if h.Price != nil {
			price = formatNumber(*h.Price)
		}
		tw.Append([]string{addr, formatNumber(h.Rooms), price})
	}
	tw.Render()
}
