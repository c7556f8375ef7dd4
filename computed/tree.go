// Package computed keeps computed style values of a node tree and
// recomputes them lazily when inputs or ancestors change.
package computed

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cssc/cascade"
	"cssc/props"
)

// ErrCycle is returned when a node would become its own ancestor.
var ErrCycle = errors.New("node cannot be its own ancestor")

// NodeID addresses a node of a Tree. IDs of released nodes become stale;
// using a stale ID panics. Zero value is None.
type NodeID struct {
	slot uint32 // index+1, zero for None
	gen  uint32
}

// None is used as parent of root nodes.
var None NodeID

// IsNone reports whether id is the zero ID.
func (id NodeID) IsNone() bool { return id.slot == 0 }

func (id NodeID) String() string {
	if id.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", id.slot-1, id.gen)
}

type node struct {
	gen      uint32
	alive    bool
	dirty    bool
	parent   uint32 // slot, zero for root
	children []uint32
	result   cascade.Result
	box      props.BoxValues
	boxGen   uint64
}

// Tree is an arena of nodes with computed values. Nodes form a forest; the
// consumer owns the structure and mirrors it with SetParent. Tree is not
// safe for concurrent use.
type Tree struct {
	log     *zap.Logger
	res     props.Resources
	nodes   []*node // slot i+1 is nodes[i]
	free    []uint32
	builder props.Builder
	chain   []uint32
}

// NewTree returns empty tree computing values with resources res.
func NewTree(res props.Resources, log *zap.Logger) *Tree {
	if log == nil {
		log = zap.NewNop()
	}
	if res == nil {
		res = &props.StaticResources{}
	}
	return &Tree{log: log.Named("computed"), res: res}
}

func (t *Tree) at(slot uint32) *node { return t.nodes[slot-1] }

// lookup validates id and returns its node.
func (t *Tree) lookup(id NodeID) *node {
	if id.slot == 0 || int(id.slot) > len(t.nodes) {
		panic(fmt.Sprintf("computed: invalid node id %s", id))
	}
	n := t.at(id.slot)
	if !n.alive || n.gen != id.gen {
		panic(fmt.Sprintf("computed: stale node id %s", id))
	}
	return n
}

// Len returns number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) - len(t.free) }

// NewNode adds a dirty root node without declarations.
func (t *Tree) NewNode() NodeID {
	var slot uint32
	if k := len(t.free); k > 0 {
		slot = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		t.nodes = append(t.nodes, &node{})
		slot = uint32(len(t.nodes))
	}
	n := t.at(slot)
	*n = node{gen: n.gen + 1, alive: true, dirty: true}
	return NodeID{slot: slot, gen: n.gen}
}

// Release removes node. Its children become dirty roots. id and every copy
// of it become stale.
func (t *Tree) Release(id NodeID) {
	n := t.lookup(id)
	t.detach(id.slot)
	for _, c := range n.children {
		t.at(c).parent = 0
		t.markDirty(c)
	}
	*n = node{gen: n.gen}
	t.free = append(t.free, id.slot)
}

// Contains reports whether id refers to a live node.
func (t *Tree) Contains(id NodeID) bool {
	if id.slot == 0 || int(id.slot) > len(t.nodes) {
		return false
	}
	n := t.at(id.slot)
	return n.alive && n.gen == id.gen
}

// SetParent moves node under parent, or makes it a root when parent is
// None. The node and all its descendants become dirty.
func (t *Tree) SetParent(id, parent NodeID) error {
	n := t.lookup(id)
	if !parent.IsNone() {
		t.lookup(parent)
		for s := parent.slot; s != 0; s = t.at(s).parent {
			if s == id.slot {
				return fmt.Errorf("set parent of %s to %s: %w", id, parent, ErrCycle)
			}
		}
	}
	if n.parent == parent.slot {
		t.markDirty(id.slot)
		return nil
	}
	t.detach(id.slot)
	n.parent = parent.slot
	if !parent.IsNone() {
		p := t.at(parent.slot)
		p.children = append(p.children, id.slot)
	}
	t.markDirty(id.slot)
	return nil
}

func (t *Tree) detach(slot uint32) {
	n := t.at(slot)
	if n.parent == 0 {
		return
	}
	p := t.at(n.parent)
	for i, c := range p.children {
		if c == slot {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = 0
}

// Parent returns parent of node, None for roots.
func (t *Tree) Parent(id NodeID) NodeID {
	n := t.lookup(id)
	if n.parent == 0 {
		return None
	}
	return NodeID{slot: n.parent, gen: t.at(n.parent).gen}
}

// Children returns registered children of node in registration order.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.lookup(id)
	out := make([]NodeID, len(n.children))
	for i, c := range n.children {
		out[i] = NodeID{slot: c, gen: t.at(c).gen}
	}
	return out
}

// SetSpecifiedValues replaces cascade result of node. The tree keeps
// referencing values of the result, which must not change while set. The
// node and all its descendants become dirty.
func (t *Tree) SetSpecifiedValues(id NodeID, r cascade.Result) {
	t.lookup(id).result = r
	t.markDirty(id.slot)
}

// SetResources replaces resources and dirties every node.
func (t *Tree) SetResources(res props.Resources) {
	t.res = res
	t.log.Debug("Resources replaced", zap.Int("nodes", t.Len()))
	for _, n := range t.nodes {
		if n.alive {
			n.dirty = true
		}
	}
}

// Resources returns resources values are computed with.
func (t *Tree) Resources() props.Resources { return t.res }

// markDirty dirties node and its registered descendants. Children of a
// dirty node are always dirty, so marking stops at dirty nodes.
func (t *Tree) markDirty(slot uint32) {
	stack := []uint32{slot}
	first := true
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.at(s)
		if n.dirty && !first {
			continue
		}
		first = false
		n.dirty = true
		stack = append(stack, n.children...)
	}
}

// IsDirty reports whether node values will be recomputed on next read.
func (t *Tree) IsDirty(id NodeID) bool { return t.lookup(id).dirty }

// Box returns computed values of node, recomputing node and its dirty
// ancestors first. Returned values must not be modified; they are updated
// in place when the node is recomputed.
func (t *Tree) Box(id NodeID) *props.BoxValues {
	n := t.lookup(id)
	if n.dirty {
		t.refresh(id.slot)
	}
	return &n.box
}

// BoxGeneration returns the number of times node values were computed.
// It only changes when values were recomputed.
func (t *Tree) BoxGeneration(id NodeID) uint64 {
	n := t.lookup(id)
	if n.dirty {
		t.refresh(id.slot)
	}
	return n.boxGen
}

// Group returns computed values of a property group of node.
func (t *Tree) Group(id NodeID, g props.Group) []props.Value {
	return t.Box(id).Group(g)
}

// Value returns computed value of a single property of node.
func (t *Tree) Value(id NodeID, p props.ID) *props.Value {
	return t.Box(id).Get(p)
}

// refresh recomputes dirty ancestors top down, then the node.
func (t *Tree) refresh(slot uint32) {
	t.chain = t.chain[:0]
	for s := slot; s != 0 && t.at(s).dirty; s = t.at(s).parent {
		t.chain = append(t.chain, s)
	}
	for i := len(t.chain) - 1; i >= 0; i-- {
		t.compute(t.chain[i])
	}
}

func (t *Tree) compute(slot uint32) {
	n := t.at(slot)
	var parent *props.BoxValues
	if n.parent != 0 {
		parent = &t.at(n.parent).box
	}

	t.builder.Reset()
	for v := range n.result.Backward() {
		if pv, ok := v.(*props.Value); ok {
			t.builder.Apply(pv)
		}
	}
	t.builder.Compute(parent, t.res, &n.box)
	t.builder.Reset()

	n.boxGen++
	n.dirty = false
}
