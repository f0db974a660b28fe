// Package intern provides a thread-safe, append-only string interner.
// Names are assigned small integer handles the first time they are seen;
// the handle for a given string never changes afterward, so it is safe to
// cache and compare handles instead of strings once interned.
//
// The interner is split into independently locked shards, so concurrent
// parser workers can intern names without contending on a single global
// lock.
package intern

import (
	"hash/maphash"
	"sync"
)

// numShards is the number of independently locked shards. The shard
// index occupies the top 8 bits of a Handle.
const numShards = 256

// Handle identifies an interned string. The zero Handle is never
// assigned by Intern, so it can be used as a "not set" sentinel.
type Handle uint32

type shard struct {
	mu     sync.RWMutex
	index  map[string]Handle
	values []string
}

// Interner assigns and resolves Handles.
type Interner struct {
	seed   maphash.Seed
	shards [numShards]*shard
}

// New creates an empty Interner.
func New() *Interner {
	in := &Interner{seed: maphash.MakeSeed()}
	for i := range in.shards {
		in.shards[i] = &shard{index: make(map[string]Handle)}
	}
	return in
}

func (in *Interner) shardIndex(s string) uint64 {
	var h maphash.Hash
	h.SetSeed(in.seed)
	_, _ = h.WriteString(s)
	return h.Sum64() % numShards
}

// Intern returns the Handle for s, assigning a new one on first sight.
func (in *Interner) Intern(s string) Handle {
	idx := in.shardIndex(s)
	sh := in.shards[idx]

	sh.mu.RLock()
	if h, ok := sh.index[s]; ok {
		sh.mu.RUnlock()
		return h
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if h, ok := sh.index[s]; ok {
		return h
	}
	local := Handle(len(sh.values)) + 1
	h := Handle(idx)<<24 | local
	sh.values = append(sh.values, s)
	sh.index[s] = h
	return h
}

// Resolve returns the string a Handle was assigned to. It panics if the
// handle was never returned by Intern on this Interner.
func (in *Interner) Resolve(h Handle) string {
	shardIdx := h >> 24
	local := h & 0x00FFFFFF
	sh := in.shards[shardIdx]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.values[local-1]
}
