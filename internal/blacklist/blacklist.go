// Package blacklist maintains the persistent set of wallets caught moving
// tokens through unknown contracts. Once listed, a wallet is excluded from
// every future run.
package blacklist

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Set is a concurrency-safe address set.
type Set struct {
	mu    sync.RWMutex
	addrs map[common.Address]bool
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{addrs: make(map[common.Address]bool)}
}

// Add records a wallet.
func (s *Set) Add(addr common.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addrs[addr] = true
}

// Has reports whether a wallet is listed.
func (s *Set) Has(addr common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addrs[addr]
}

// Len returns the number of listed wallets.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.addrs)
}

// Addresses returns the listed wallets in deterministic order.
func (s *Set) Addresses() []common.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]common.Address, 0, len(s.addrs))
	for a := range s.addrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Hex() < out[j].Hex()
	})
	return out
}

// Load reads a Set from a JSON array file. A missing file yields an empty
// set so first runs need no setup.
func Load(path string) (*Set, error) {
	s := NewSet()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}

	var hexes []string
	if err := json.Unmarshal(raw, &hexes); err != nil {
		return nil, fmt.Errorf("parse blacklist %s: %w", path, err)
	}
	for _, h := range hexes {
		s.addrs[common.HexToAddress(h)] = true
	}
	return s, nil
}

// Save writes the Set as a JSON array, atomically via rename.
func (s *Set) Save(path string) error {
	addrs := s.Addresses()
	hexes := make([]string, len(addrs))
	for i, a := range addrs {
		hexes[i] = a.Hex()
	}

	raw, err := json.MarshalIndent(hexes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal blacklist: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write blacklist: %w", err)
	}
	return os.Rename(tmp, path)
}
