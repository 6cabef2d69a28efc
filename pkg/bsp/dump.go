package bsp

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes a prefix-indented listing of the tree: one "splitter <plane>"
// line per branch followed by its front then back subtree, and "solid" or
// "empty" per leaf.
func (t *Tree) Dump(w io.Writer) error {
	type entry struct {
		id    NodeID
		depth int
	}
	stack := []entry{{t.root, 0}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		indent := strings.Repeat("  ", e.depth)
		n := t.at(e.id)
		var err error
		switch {
		case !n.leaf:
			_, err = fmt.Fprintf(w, "%ssplitter %s\n", indent, n.splitter)
			stack = append(stack, entry{n.right, e.depth + 1}, entry{n.left, e.depth + 1})
		case t.IsSolid(e.id):
			_, err = fmt.Fprintf(w, "%ssolid\n", indent)
		default:
			_, err = fmt.Fprintf(w, "%sempty\n", indent)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) String() string {
	var sb strings.Builder
	_ = t.Dump(&sb)
	return sb.String()
}
