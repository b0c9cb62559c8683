package main

import "strings"

// DefaultSentinel terminates indexed text unless the caller picks another byte.
const DefaultSentinel byte = '$'

// Build constructs the suffix tree for text using Ukkonen's online algorithm,
// appending DefaultSentinel when text does not already end with it. The whole
// construction is amortized linear in len(text).
func Build(text string) (*SuffixTree, error) {
	return BuildWithSentinel(text, DefaultSentinel)
}

// BuildWithSentinel is Build with a caller-chosen terminator byte, for inputs
// whose alphabet contains the default one. The sentinel must not occur before
// the final position; the empty input is rejected.
func BuildWithSentinel(text string, sentinel byte) (*SuffixTree, error) {
	if len(text) == 0 {
		return nil, InvalidInputError{Reason: "empty input", Sentinel: sentinel}
	}
	body := text
	if body[len(body)-1] == sentinel {
		body = body[:len(body)-1]
	}
	if strings.IndexByte(body, sentinel) >= 0 {
		return nil, InvalidInputError{Reason: "sentinel occurs before final position", Sentinel: sentinel}
	}

	t := &SuffixTree{
		text:     append([]byte(body), sentinel),
		sentinel: sentinel,
		nodes:    make([]node, 0, 2*len(body)+2),
	}
	t.root = t.newNode(0, 0)
	t.activeNode = t.root
	for pos := range t.text {
		t.extend(pos)
	}
	t.finalize()
	return t, nil
}

// extend runs one phase: it admits text[pos], which implicitly extends every
// open leaf via the shared global end, then resolves due suffixes until none
// remain or an already-present path proves the rest are present too.
func (t *SuffixTree) extend(pos int) {
	t.end = pos + 1
	t.remaining++
	lastSplit := nilNode

	for t.remaining > 0 {
		if t.activeLength == 0 {
			t.activeEdge = pos
		}
		first := t.text[t.activeEdge]
		next, ok := t.nodes[t.activeNode].children[first]
		if !ok {
			if t.activeLength > 0 {
				panic(InvariantViolation{Detail: "active edge has no transition"})
			}
			// no edge for this symbol: new leaf under the active node
			leaf := t.newLeaf(pos)
			t.nodes[t.activeNode].children[first] = leaf
			if lastSplit != nilNode {
				t.nodes[lastSplit].link = t.activeNode
				lastSplit = nilNode
			}
		} else {
			if t.walkDown(next) {
				continue
			}
			if t.text[t.nodes[next].start+t.activeLength] == t.text[pos] {
				// the suffix is already present, and so is every shorter
				// one due this phase; stop early
				if lastSplit != nilNode && t.activeNode != t.root {
					t.nodes[lastSplit].link = t.activeNode
				}
				t.activeLength++
				break
			}
			// path diverges mid-edge: split it and hang a new leaf off
			// the fresh internal node
			split := t.newNode(t.nodes[next].start, t.nodes[next].start+t.activeLength)
			leaf := t.newLeaf(pos)
			t.nodes[t.activeNode].children[first] = split
			t.nodes[split].children[t.text[pos]] = leaf
			t.nodes[next].start += t.activeLength
			t.nodes[split].children[t.text[t.nodes[next].start]] = next
			if lastSplit != nilNode {
				// chain nodes split within the same phase
				t.nodes[lastSplit].link = split
			}
			lastSplit = split
		}

		t.remaining--
		if t.activeNode == t.root && t.activeLength > 0 {
			t.activeLength--
			t.activeEdge = pos - t.remaining + 1
		} else if t.activeNode != t.root {
			t.activeNode = t.followLink(t.activeNode)
		}
	}
}

// walkDown hops the active point over an edge shorter than the active length,
// keeping the reference pair canonical.
func (t *SuffixTree) walkDown(next int32) bool {
	l := t.edgeLength(next)
	if t.activeLength < l {
		return false
	}
	t.activeEdge += l
	t.activeLength -= l
	t.activeNode = next
	return true
}

// followLink steps along a suffix link, falling back to the root for nodes
// that haven't been linked.
func (t *SuffixTree) followLink(id int32) int32 {
	if l := t.nodes[id].link; l != nilNode {
		return l
	}
	return t.root
}

// finalize turns the implicit tree explicit: open leaf ends are resolved to
// the final length and each leaf learns the starting offset of its suffix.
// Running it a second time changes nothing.
func (t *SuffixTree) finalize() {
	var walk func(id int32, depth int)
	walk = func(id int32, depth int) {
		n := &t.nodes[id]
		if n.end == openEnd {
			n.end = len(t.text)
		}
		depth += n.end - n.start
		if n.isLeaf() {
			n.suffixAt = len(t.text) - depth
			return
		}
		for _, child := range n.children {
			walk(child, depth)
		}
	}
	walk(t.root, 0)
	t.finalized = true
}
