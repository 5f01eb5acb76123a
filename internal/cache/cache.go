package cache

import (
	"sync"
	"time"

	"bennypowers.dev/lupls/internal/log"
)

// DefaultIdleTimeout is how long an untouched entry survives a Sweep.
const DefaultIdleTimeout = 5 * time.Minute

// Snapshot is the file view entries are validated against.
type Snapshot interface {
	FilePath() string
	// Fingerprint changes whenever the file content changes.
	Fingerprint() uint64
}

// Node identifies a node within a snapshot. Identity distinguishes two nodes
// that share a key across snapshots.
type Node struct {
	Key      string
	Identity uint64
}

type entry[T any] struct {
	value    T
	node     string
	identity uint64
	touched  time.Time
}

// Cache memoizes values derived from syntax nodes. An entry is served only
// while its file fingerprint matches and the node still has the identity it
// had when the value was built.
type Cache[T any] struct {
	name  string
	arena *Arena
	idle  time.Duration
	now   func() time.Time

	mu           sync.Mutex
	entries      map[Key]*entry[T]
	fingerprints map[FileID]uint64
	hits, misses int
}

// New creates a cache named name over arena. A zero idle uses
// DefaultIdleTimeout.
func New[T any](name string, arena *Arena, idle time.Duration) *Cache[T] {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Cache[T]{
		name:         name,
		arena:        arena,
		idle:         idle,
		now:          time.Now,
		entries:      make(map[Key]*entry[T]),
		fingerprints: make(map[FileID]uint64),
	}
}

// SetClock replaces the time source, for tests.
func (c *Cache[T]) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// validate purges the file's entries when its fingerprint moved. Caller
// holds c.mu.
func (c *Cache[T]) validate(file FileID, fp uint64) {
	old, seen := c.fingerprints[file]
	if seen && old == fp {
		return
	}
	c.fingerprints[file] = fp
	if !seen {
		return
	}
	if purged := c.purge(file); purged > 0 {
		log.Debug("%s cache: purged %d entries after file change", c.name, purged)
	}
}

// purge removes every entry of file. Caller holds c.mu.
func (c *Cache[T]) purge(file FileID) int {
	purged := 0
	for k, e := range c.entries {
		if k.File == file {
			c.remove(k, e)
			purged++
		}
	}
	return purged
}

// remove deletes one entry and gives its node id back to the arena. Caller
// holds c.mu.
func (c *Cache[T]) remove(k Key, e *entry[T]) {
	delete(c.entries, k)
	c.arena.Drop(k.File, e.node)
}

// Get returns the cached value for node in snap.
func (c *Cache[T]) Get(snap Snapshot, node Node) (T, bool) {
	file := c.arena.File(snap.FilePath())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.validate(file, snap.Fingerprint())
	var e *entry[T]
	id, ok := c.arena.Node(file, node.Key)
	if ok {
		e, ok = c.entries[Key{File: file, Node: id}]
	}
	if ok && e.identity != node.Identity {
		// Same position and fingerprint, different node: the old reference
		// is no longer reachable from this snapshot.
		c.remove(Key{File: file, Node: id}, e)
		ok = false
	}
	if !ok {
		c.misses++
		var zero T
		return zero, false
	}
	c.hits++
	e.touched = c.now()
	return e.value, true
}

// Put stores value for node in snap.
func (c *Cache[T]) Put(snap Snapshot, node Node, value T) {
	file := c.arena.File(snap.FilePath())

	c.mu.Lock()
	defer c.mu.Unlock()
	c.validate(file, snap.Fingerprint())
	if id, ok := c.arena.Node(file, node.Key); ok {
		if e, ok := c.entries[Key{File: file, Node: id}]; ok {
			e.value, e.identity, e.touched = value, node.Identity, c.now()
			return
		}
	}
	id := c.arena.Retain(file, node.Key)
	c.entries[Key{File: file, Node: id}] = &entry[T]{
		value:    value,
		node:     node.Key,
		identity: node.Identity,
		touched:  c.now(),
	}
}

// GetOrCreate returns the cached value or builds and stores a new one.
func (c *Cache[T]) GetOrCreate(snap Snapshot, node Node, build func() T) T {
	if v, ok := c.Get(snap, node); ok {
		return v
	}
	v := build()
	c.Put(snap, node, v)
	return v
}

// Invalidate drops every entry of path.
func (c *Cache[T]) Invalidate(path string) {
	file := c.arena.File(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purge(file)
	delete(c.fingerprints, file)
}

// Sweep evicts entries untouched for longer than the idle timeout and
// returns how many it removed. Files left without entries lose their
// fingerprint too.
func (c *Cache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	live := make(map[FileID]bool)
	for k, e := range c.entries {
		if now.Sub(e.touched) > c.idle {
			c.remove(k, e)
			removed++
			continue
		}
		live[k.File] = true
	}
	for file := range c.fingerprints {
		if !live[file] {
			delete(c.fingerprints, file)
		}
	}
	if removed > 0 {
		log.Debug("%s cache: swept %d idle entries", c.name, removed)
	}
	return removed
}

// Len is the number of live entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
