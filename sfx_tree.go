package main

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"
)

const (
	// nilNode marks an absent node handle (no suffix link, no match).
	nilNode int32 = -1
	// openEnd marks a leaf edge whose end tracks the tree's global end.
	openEnd = -1
)

// node lives in the tree's arena and is addressed by its int32 handle.
// The edge label arriving at the node is text[start:end); leaves keep
// end == openEnd until finalization and resolve against the shared global
// end, so advancing that one counter extends every open leaf at once.
// link is the suffix link, a plain non-owning handle.
type node struct {
	start    int
	end      int
	children map[byte]int32
	link     int32
	suffixAt int
}

func (n *node) isLeaf() bool {
	return n.children == nil
}

// SuffixTree indexes every suffix of one sentinel-terminated byte string.
// Nodes are arena-allocated and never freed; once Build returns the tree is
// immutable and safe for concurrent readers.
type SuffixTree struct {
	text     []byte
	sentinel byte
	nodes    []node
	root     int32

	// construction state, meaningless after finalization
	end          int
	activeNode   int32
	activeEdge   int
	activeLength int
	remaining    int

	finalized bool
}

// Edge is one parent-to-child transition, reported for verification.
type Edge struct {
	Parent int32
	First  byte
	Label  string
}

func (t *SuffixTree) newNode(start, end int) int32 {
	t.nodes = append(t.nodes, node{
		start:    start,
		end:      end,
		children: make(map[byte]int32),
		link:     nilNode,
		suffixAt: -1,
	})
	return int32(len(t.nodes) - 1)
}

func (t *SuffixTree) newLeaf(start int) int32 {
	t.nodes = append(t.nodes, node{
		start:    start,
		end:      openEnd,
		link:     nilNode,
		suffixAt: -1,
	})
	return int32(len(t.nodes) - 1)
}

// edgeEnd resolves a node's label end, mapping open leaves to the global end.
func (t *SuffixTree) edgeEnd(id int32) int {
	if t.nodes[id].end == openEnd {
		return t.end
	}
	return t.nodes[id].end
}

func (t *SuffixTree) edgeLength(id int32) int {
	return t.edgeEnd(id) - t.nodes[id].start
}

// Len reports the indexed length, sentinel included.
func (t *SuffixTree) Len() int {
	return len(t.text)
}

// Sentinel reports the terminator byte the tree was built with.
func (t *SuffixTree) Sentinel() byte {
	return t.sentinel
}

// Contains reports whether pattern occurs in the indexed text.
func (t *SuffixTree) Contains(pattern string) bool {
	_, ok := t.locate([]byte(pattern))
	return ok
}

// Find returns the starting offsets of every occurrence of pattern in the
// indexed text, in ascending order. An empty pattern yields no offsets.
func (t *SuffixTree) Find(pattern string) []int {
	if len(pattern) == 0 {
		return nil
	}
	at, ok := t.locate([]byte(pattern))
	if !ok {
		return nil
	}
	var offsets []int
	t.collectSuffixes(at, &offsets)
	sort.Ints(offsets)
	return offsets
}

// locate walks from the root following pattern and returns the node at or
// below the point where the pattern is exhausted.
func (t *SuffixTree) locate(pattern []byte) (int32, bool) {
	if len(pattern) == 0 {
		return t.root, true
	}
	cur := t.root
	i := 0
	for {
		next, ok := t.nodes[cur].children[pattern[i]]
		if !ok {
			return nilNode, false
		}
		for j := t.nodes[next].start; j < t.edgeEnd(next); j++ {
			if t.text[j] != pattern[i] {
				return nilNode, false
			}
			i++
			if i == len(pattern) {
				return next, true
			}
		}
		cur = next
	}
}

func (t *SuffixTree) collectSuffixes(id int32, out *[]int) {
	n := &t.nodes[id]
	if n.isLeaf() {
		*out = append(*out, n.suffixAt)
		return
	}
	for _, child := range n.children {
		t.collectSuffixes(child, out)
	}
}

// Edges enumerates every transition with its resolved label. Only defined on
// a finalized tree, where leaf ends are determinate.
func (t *SuffixTree) Edges() []Edge {
	if !t.finalized {
		panic(InvariantViolation{Detail: "edge enumeration before finalization"})
	}
	var edges []Edge
	var walk func(id int32)
	walk = func(id int32) {
		for _, child := range t.nodes[id].children {
			c := &t.nodes[child]
			edges = append(edges, Edge{
				Parent: id,
				First:  t.text[c.start],
				Label:  string(t.text[c.start:t.edgeEnd(child)]),
			})
			if !c.isLeaf() {
				walk(child)
			}
		}
	}
	walk(t.root)
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Parent != edges[j].Parent {
			return edges[i].Parent < edges[j].Parent
		}
		return edges[i].First < edges[j].First
	})
	return edges
}

// LeafCount reports the number of leaves, one per indexed suffix.
func (t *SuffixTree) LeafCount() int {
	count := 0
	for i := range t.nodes {
		if t.nodes[i].isLeaf() {
			count++
		}
	}
	return count
}

// InternalNodeCount reports the number of branching nodes below the root.
func (t *SuffixTree) InternalNodeCount() int {
	count := 0
	for i := range t.nodes {
		if int32(i) != t.root && !t.nodes[i].isLeaf() {
			count++
		}
	}
	return count
}

// Dump renders the tree for humans, one branch per edge label.
func (t *SuffixTree) Dump() string {
	tree := treeprint.New()
	tree.SetValue(fmt.Sprintf("suffix tree (%d bytes, %d leaves)", len(t.text), t.LeafCount()))
	t.dumpNode(t.root, tree)
	return tree.String()
}

func (t *SuffixTree) dumpNode(id int32, branch treeprint.Tree) {
	for _, child := range t.sortedChildren(id) {
		c := &t.nodes[child]
		label := string(t.text[c.start:t.edgeEnd(child)])
		if c.isLeaf() {
			branch.AddNode(fmt.Sprintf("%q [suffix %d]", label, c.suffixAt))
			continue
		}
		t.dumpNode(child, branch.AddBranch(fmt.Sprintf("%q", label)))
	}
}

func (t *SuffixTree) sortedChildren(id int32) []int32 {
	firsts := make([]byte, 0, len(t.nodes[id].children))
	for b := range t.nodes[id].children {
		firsts = append(firsts, b)
	}
	sort.Slice(firsts, func(i, j int) bool { return firsts[i] < firsts[j] })
	children := make([]int32, len(firsts))
	for i, b := range firsts {
		children[i] = t.nodes[id].children[b]
	}
	return children
}
