// Package cache memoizes per-node derived data keyed by stable arena ids.
package cache

import "sync"

// FileID identifies a file path for the arena's lifetime.
type FileID int32

// NodeID identifies a node key within a file.
type NodeID int32

// Key addresses one cached node.
type Key struct {
	File FileID
	Node NodeID
}

// Arena hands out stable ids for files and for node keys within a file.
// Ids are never reused, so a released file cannot alias a new one. Node ids
// are reference counted by the entries holding them and forgotten when the
// last one goes.
type Arena struct {
	mu       sync.Mutex
	files    map[string]FileID
	paths    map[FileID]string
	nodes    map[FileID]map[string]*nodeRef
	nextFile FileID
	nextNode NodeID
}

type nodeRef struct {
	id   NodeID
	refs int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{
		files: make(map[string]FileID),
		paths: make(map[FileID]string),
		nodes: make(map[FileID]map[string]*nodeRef),
	}
}

// File returns the id of path, assigning one on first use.
func (a *Arena) File(path string) FileID {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.files[path]; ok {
		return id
	}
	a.nextFile++
	id := a.nextFile
	a.files[path] = id
	a.paths[id] = path
	a.nodes[id] = make(map[string]*nodeRef)
	return id
}

// Node returns the id of nodeKey within file without assigning one.
func (a *Arena) Node(file FileID, nodeKey string) (NodeID, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if ref, ok := a.nodes[file][nodeKey]; ok {
		return ref.id, true
	}
	return 0, false
}

// Retain returns the id of nodeKey within file, assigning one on first use,
// and takes a reference on it.
func (a *Arena) Retain(file FileID, nodeKey string) NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()
	nodes := a.nodes[file]
	if nodes == nil {
		nodes = make(map[string]*nodeRef)
		a.nodes[file] = nodes
	}
	ref, ok := nodes[nodeKey]
	if !ok {
		a.nextNode++
		ref = &nodeRef{id: a.nextNode}
		nodes[nodeKey] = ref
	}
	ref.refs++
	return ref.id
}

// Drop gives back a reference taken by Retain. The id is forgotten with its
// last reference.
func (a *Arena) Drop(file FileID, nodeKey string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ref, ok := a.nodes[file][nodeKey]
	if !ok {
		return
	}
	if ref.refs--; ref.refs <= 0 {
		delete(a.nodes[file], nodeKey)
	}
}

// Nodes is the number of node ids live under file.
func (a *Arena) Nodes(file FileID) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.nodes[file])
}

// Path returns the path registered for id.
func (a *Arena) Path(id FileID) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.paths[id]
	return p, ok
}

// Release forgets path and every node id under it.
func (a *Arena) Release(path string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.files[path]
	if !ok {
		return
	}
	delete(a.files, path)
	delete(a.paths, id)
	delete(a.nodes, id)
}
