package newick

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/evolbioinfo/ebd/tree"
)

// Write renders t as a Newick string terminated with ';'.
func Write(t *tree.Tree) string {
	var buf bytes.Buffer
	writeNode(t.Root(), &buf)
	buf.WriteString(";")
	return buf.String()
}

func writeNode(n *tree.Node, buf *bytes.Buffer) {
	if !n.Tip() {
		buf.WriteString("(")
		for i, c := range n.Children() {
			if i > 0 {
				buf.WriteString(",")
			}
			writeNode(c, buf)
		}
		buf.WriteString(")")
	}
	buf.WriteString(quoteLabel(n.Name()))
	if s, ok := n.Support(); ok && !n.Tip() {
		buf.WriteString(strconv.FormatFloat(s, 'f', -1, 64))
	}
	if l, ok := n.Length(); ok {
		buf.WriteString(":")
		buf.WriteString(strconv.FormatFloat(l, 'f', -1, 64))
	}
	for _, c := range n.Comments() {
		buf.WriteString("[")
		buf.WriteString(c)
		buf.WriteString("]")
	}
}

func quoteLabel(name string) string {
	if name == "" {
		return ""
	}
	if strings.ContainsAny(name, " ,():;[]'") {
		return "'" + strings.ReplaceAll(name, "'", "''") + "'"
	}
	return strings.ReplaceAll(name, " ", "_")
}
