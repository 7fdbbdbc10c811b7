package optimize

import (
	"github.com/bsm/polyhash/geohash"
)

// node is a trie node. Index 0 is reserved for the root, a child
// index of 0 therefore marks an absent child.
type node struct {
	parent   int32
	children [32]int32
	symbol   byte
	depth    uint8
	present  bool    // the node is a member of the set
	detached bool    // an ancestor has been collapsed
	covered  float64 // area of present nodes in the subtree
	count    int     // number of present nodes in the subtree
}

// trie is an arena-indexed prefix tree over hashes.
type trie struct {
	nodes  []node
	levels [geohash.MaxPrecision + 1][]int32
}

func newTrie(capacity int) *trie {
	t := &trie{nodes: make([]node, 1, capacity+1)}
	t.levels[0] = []int32{0}
	return t
}

// Insert adds h to the trie. Hashes are assumed to be valid and not
// to overlap other members.
func (t *trie) Insert(h geohash.Hash) {
	pos := int32(0)
	for i := 0; i < len(h); i++ {
		sym := h.Symbol(i)
		next := t.nodes[pos].children[sym]
		if next == 0 {
			next = int32(len(t.nodes))
			t.nodes = append(t.nodes, node{
				parent: pos,
				symbol: h[i],
				depth:  uint8(i + 1),
			})
			t.nodes[pos].children[sym] = next
			t.levels[i+1] = append(t.levels[i+1], next)
		}
		pos = next
	}

	if t.nodes[pos].present {
		return
	}
	t.nodes[pos].present = true
	t.propagate(pos, geohash.CellArea(len(h)), 1)
}

// Covered returns the area covered by present nodes.
func (t *trie) Covered() float64 { return t.nodes[0].covered }

// Count returns the number of present nodes.
func (t *trie) Count() int { return t.nodes[0].count }

// Level returns the node indices at the given depth.
func (t *trie) Level(depth int) []int32 { return t.levels[depth] }

// Gap returns the area a collapse of the node would add.
func (t *trie) Gap(pos int32) float64 {
	n := &t.nodes[pos]
	return geohash.CellArea(int(n.depth)) - n.covered
}

// Direct returns the number of present direct children.
func (t *trie) Direct(pos int32) int {
	n := 0
	for _, c := range t.nodes[pos].children {
		if c != 0 && t.nodes[c].present {
			n++
		}
	}
	return n
}

// Candidate returns true if the node is attached, not itself present and
// has present descendants.
func (t *trie) Candidate(pos int32) bool {
	n := &t.nodes[pos]
	return !n.detached && !n.present && n.count != 0
}

// Collapse makes the node a member and detaches all of its descendants.
// It returns the area added.
func (t *trie) Collapse(pos int32) float64 {
	n := &t.nodes[pos]
	gap := geohash.CellArea(int(n.depth)) - n.covered
	dcount := 1 - n.count

	for i, c := range n.children {
		if c != 0 {
			t.detach(c)
			n.children[i] = 0
		}
	}

	n.present = true
	t.propagate(pos, gap, dcount)
	return gap
}

// Hash returns the hash of the node.
func (t *trie) Hash(pos int32) geohash.Hash {
	buf := make([]byte, t.nodes[pos].depth)
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i] = t.nodes[pos].symbol
		pos = t.nodes[pos].parent
	}
	return geohash.Hash(buf)
}

// Members returns all present nodes as a sorted set.
func (t *trie) Members() geohash.Set {
	res := make(geohash.Set, 0, t.Count())
	t.walk(0, func(pos int32) {
		res = append(res, t.Hash(pos))
	})
	return res
}

// walk visits present nodes depth-first, in alphabet order.
func (t *trie) walk(pos int32, fn func(int32)) {
	n := &t.nodes[pos]
	if n.present {
		fn(pos)
		return
	}
	for _, c := range n.children {
		if c != 0 {
			t.walk(c, fn)
		}
	}
}

func (t *trie) detach(pos int32) {
	n := &t.nodes[pos]
	n.detached = true
	for _, c := range n.children {
		if c != 0 {
			t.detach(c)
		}
	}
}

func (t *trie) propagate(pos int32, area float64, count int) {
	for {
		n := &t.nodes[pos]
		n.covered += area
		n.count += count
		if pos == 0 {
			return
		}
		pos = n.parent
	}
}
