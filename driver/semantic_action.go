package driver

import (
	"fmt"
	"io"
)

// Node is the default semantic value: a concrete-syntax tree node. A
// production without a semantic action yields a Node whose children are
// those values of its body symbols that are themselves Nodes (other values
// are dropped), and a terminal without a lexeme converter yields a leaf.
type Node struct {
	KindName string
	Text     string
	Row      int
	Col      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

func (p *Parser) tokenNode(terminal int, tok Token) *Node {
	row, col := tok.Position()
	return &Node{
		KindName: p.gram.Terminal(terminal),
		Text:     string(tok.Lexeme()),
		Row:      row,
		Col:      col,
	}
}

func (p *Parser) nonTerminalNode(lhs int, frames []*semanticFrame) *Node {
	var children []*Node
	for _, f := range frames {
		if n, ok := f.value.(*Node); ok {
			children = append(children, n)
		}
	}
	return &Node{
		KindName: p.gram.NonTerminal(lhs),
		Children: children,
	}
}
