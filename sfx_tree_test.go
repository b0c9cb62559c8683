package main

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// leafStrings spells out every root-to-leaf path of the finalized tree.
func leafStrings(t *SuffixTree) []string {
	var out []string
	var walk func(id int32, prefix string)
	walk = func(id int32, prefix string) {
		n := t.nodes[id]
		label := prefix + string(t.text[n.start:t.edgeEnd(id)])
		if n.isLeaf() {
			out = append(out, label)
			return
		}
		for _, child := range n.children {
			walk(child, label)
		}
	}
	for _, child := range t.nodes[t.root].children {
		walk(child, "")
	}
	sort.Strings(out)
	return out
}

// pathStrings maps every node handle to the string it represents.
func pathStrings(t *SuffixTree) map[int32]string {
	paths := map[int32]string{t.root: ""}
	var walk func(id int32, prefix string)
	walk = func(id int32, prefix string) {
		n := t.nodes[id]
		label := prefix + string(t.text[n.start:t.edgeEnd(id)])
		paths[id] = label
		for _, child := range n.children {
			walk(child, label)
		}
	}
	for _, child := range t.nodes[t.root].children {
		walk(child, "")
	}
	return paths
}

func allSuffixes(text string) []string {
	suffixes := make([]string, 0, len(text))
	for i := range text {
		suffixes = append(suffixes, text[i:])
	}
	sort.Strings(suffixes)
	return suffixes
}

func naiveFind(text, pattern string) []int {
	var offsets []int
	for i := 0; i+len(pattern) <= len(text); i++ {
		if text[i:i+len(pattern)] == pattern {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func Test_Build_Banana(t *testing.T) {
	Convey("banana gets one leaf per suffix", t, func() {
		tree, err := Build("banana")
		So(err, ShouldBeNil)

		So(tree.LeafCount(), ShouldEqual, 7)
		So(leafStrings(tree), ShouldResemble, allSuffixes("banana$"))

		Convey("including each sentinel-terminated suffix of the body", func() {
			for _, suffix := range []string{"banana$", "anana$", "nana$", "ana$", "na$", "a$"} {
				So(tree.Contains(suffix), ShouldBeTrue)
			}
		})

		Convey("with correct occurrence offsets", func() {
			So(tree.Find("ana"), ShouldResemble, []int{1, 3})
			So(tree.Find("na"), ShouldResemble, []int{2, 4})
			So(tree.Find("banana"), ShouldResemble, []int{0})
			So(tree.Find("b"), ShouldResemble, []int{0})
		})

		Convey("and no false positives", func() {
			So(tree.Contains("nab"), ShouldBeFalse)
			So(tree.Contains("bananas"), ShouldBeFalse)
			So(tree.Find("x"), ShouldBeNil)
			So(tree.Find(""), ShouldBeNil)
		})
	})
}

func Test_Build_RunOfEqualSymbols(t *testing.T) {
	Convey("aaaa exercises the early-stop rule", t, func() {
		tree, err := Build("aaaa")
		So(err, ShouldBeNil)

		So(tree.LeafCount(), ShouldEqual, 5)
		So(leafStrings(tree), ShouldResemble, allSuffixes("aaaa$"))

		Convey("the degenerate case keeps the internal node count small", func() {
			So(tree.InternalNodeCount(), ShouldEqual, 3)
		})

		Convey("overlapping occurrences are all reported", func() {
			So(tree.Find("aa"), ShouldResemble, []int{0, 1, 2})
			So(tree.Find("a"), ShouldResemble, []int{0, 1, 2, 3})
		})
	})
}

func Test_Build_AllDistinctSymbols(t *testing.T) {
	Convey("abcde splits nothing and fans out at the root", t, func() {
		tree, err := Build("abcde")
		So(err, ShouldBeNil)

		So(tree.LeafCount(), ShouldEqual, 6)
		So(tree.InternalNodeCount(), ShouldEqual, 0)
		So(leafStrings(tree), ShouldResemble, allSuffixes("abcde$"))
	})
}

func Test_Build_SingleSymbol(t *testing.T) {
	Convey("a single-symbol input yields two leaves under the root", t, func() {
		tree, err := Build("a")
		So(err, ShouldBeNil)

		So(tree.LeafCount(), ShouldEqual, 2)
		So(tree.InternalNodeCount(), ShouldEqual, 0)
		So(leafStrings(tree), ShouldResemble, []string{"$", "a$"})
	})
}

func Test_Build_RejectsBadInput(t *testing.T) {
	Convey("inputs the builder must refuse", t, func() {

		Convey("empty input", func() {
			tree, err := Build("")
			So(tree, ShouldBeNil)
			So(err, ShouldHaveSameTypeAs, InvalidInputError{})
		})

		Convey("sentinel in the middle is never truncated", func() {
			tree, err := Build("ab$cd")
			So(tree, ShouldBeNil)
			So(err, ShouldHaveSameTypeAs, InvalidInputError{})
		})

		Convey("sentinel twice", func() {
			tree, err := Build("ab$c$")
			So(tree, ShouldBeNil)
			So(err, ShouldHaveSameTypeAs, InvalidInputError{})
		})

		Convey("a caller-chosen sentinel sidesteps the collision", func() {
			tree, err := BuildWithSentinel("ab$cd", '#')
			So(err, ShouldBeNil)
			So(tree.Sentinel(), ShouldEqual, byte('#'))
			So(tree.Find("b$c"), ShouldResemble, []int{1})
		})
	})
}

func Test_Build_SentinelHandling(t *testing.T) {
	Convey("a trailing sentinel is not appended twice", t, func() {
		tree, err := Build("banana$")
		So(err, ShouldBeNil)
		So(tree.Len(), ShouldEqual, 7)
		So(tree.LeafCount(), ShouldEqual, 7)
	})

	Convey("the bare sentinel is a valid one-suffix input", t, func() {
		tree, err := Build("$")
		So(err, ShouldBeNil)
		So(tree.LeafCount(), ShouldEqual, 1)
	})
}

func Test_Tree_MatchesNaiveScan(t *testing.T) {
	inputs := []string{
		"mississippi",
		"abracadabra",
		"aabaabaa",
		"abcabxabcd",
		"bookkeeper",
		"xyzxyzxyzxyz",
	}

	Convey("every substring query agrees with the naive scan", t, func() {
		for _, input := range inputs {
			tree, err := Build(input)
			So(err, ShouldBeNil)

			for i := 0; i < len(input); i++ {
				for j := i + 1; j <= len(input); j++ {
					pattern := input[i:j]
					So(tree.Find(pattern), ShouldResemble, naiveFind(input, pattern))
					So(tree.Contains(pattern), ShouldBeTrue)
				}
			}

			for _, absent := range []string{"qq", input + "z", "z" + input} {
				So(tree.Contains(absent), ShouldBeFalse)
				So(tree.Find(absent), ShouldBeNil)
			}
		}
	})
}

func Test_Tree_StructuralInvariants(t *testing.T) {
	inputs := []string{"a", "aaaa", "abcde", "banana", "mississippi", "abcabxabcd"}

	Convey("structural invariants hold for every input", t, func() {
		for _, input := range inputs {
			tree, err := Build(input)
			So(err, ShouldBeNil)

			Convey("every internal node of "+input+" branches at least twice", func() {
				for i := range tree.nodes {
					if int32(i) == tree.root || tree.nodes[i].isLeaf() {
						continue
					}
					So(len(tree.nodes[i].children), ShouldBeGreaterThanOrEqualTo, 2)
				}
			})

			Convey("every assigned suffix link of "+input+" drops the first symbol", func() {
				paths := pathStrings(tree)
				for i := range tree.nodes {
					if tree.nodes[i].isLeaf() || tree.nodes[i].link == nilNode {
						continue
					}
					path := paths[int32(i)]
					if path == "" {
						continue
					}
					So(paths[tree.nodes[i].link], ShouldEqual, path[1:])
				}
			})

			Convey("the arena of "+input+" stays linear in the input", func() {
				So(len(tree.nodes), ShouldBeLessThanOrEqualTo, 2*tree.Len())
				So(tree.LeafCount(), ShouldEqual, tree.Len())
			})
		}
	})
}

func Test_Finalize_Idempotent(t *testing.T) {
	Convey("finalizing twice leaves the tree untouched", t, func() {
		tree, err := Build("mississippi")
		So(err, ShouldBeNil)

		before := tree.Edges()
		dumpBefore := tree.Dump()

		tree.finalize()

		So(reflect.DeepEqual(before, tree.Edges()), ShouldBeTrue)
		So(tree.Dump(), ShouldEqual, dumpBefore)
	})
}

func Test_Tree_Edges(t *testing.T) {
	Convey("edge enumeration resolves every label", t, func() {
		tree, err := Build("abab")
		So(err, ShouldBeNil)

		edges := tree.Edges()
		So(len(edges), ShouldBeGreaterThan, 0)

		Convey("labels are non-empty and siblings never share a first symbol", func() {
			seen := map[int32]map[byte]bool{}
			for _, edge := range edges {
				So(edge.Label, ShouldNotBeEmpty)
				So(edge.Label[0], ShouldEqual, edge.First)
				if seen[edge.Parent] == nil {
					seen[edge.Parent] = map[byte]bool{}
				}
				So(seen[edge.Parent][edge.First], ShouldBeFalse)
				seen[edge.Parent][edge.First] = true
			}
		})

		Convey("the dump renders one line per leaf and branch", func() {
			dump := tree.Dump()
			So(dump, ShouldContainSubstring, "suffix tree")
			So(strings.Count(dump, "suffix "), ShouldBeGreaterThanOrEqualTo, tree.LeafCount())
		})
	})
}
