// Package newick reads and writes the Newick tree format: parenthesized
// rooted trees with optional branch lengths, support values and bracket
// comments. It is an external collaborator of the β-diversity core (its
// internals are not part of that core, per the specification); the core
// only consumes the *tree.Tree it produces.
package newick

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/evolbioinfo/ebd/ebderr"
	"github.com/evolbioinfo/ebd/tree"
	"github.com/rs/zerolog"
)

// Reader parses Newick strings into *tree.Tree. A zero Reader is usable;
// Log defaults to a no-op logger so a missing branch length only surfaces a
// warning when the caller wants one.
type Reader struct {
	Log zerolog.Logger
}

// Read parses a single Newick tree from s. Comments in [ ] are stripped
// before tokenizing. A missing branch length on a non-root node is logged
// as a warning and treated as zero.
func (r Reader) Read(s string) (*tree.Tree, error) {
	s = stripComments(s)
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ";")
	p := &parser{src: s, log: r.Log}
	root, err := p.parseClade(true)
	if err != nil {
		return nil, ebderr.Wrap(ebderr.InputFormat, err, "parsing newick")
	}
	if p.pos != len(p.src) {
		return nil, ebderr.Newf(ebderr.InputFormat, "unexpected trailing characters at position %d", p.pos)
	}
	t := tree.New()
	t.SetRoot(root)
	t.AssignIndices()
	return t, nil
}

func stripComments(s string) string {
	var out bytes.Buffer
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			out.WriteRune(r)
		}
	}
	return out.String()
}

type parser struct {
	src string
	pos int
	log zerolog.Logger
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// parseClade parses one subtree: either "(child,child,...)label:length" or
// a leaf "label:length".
func (p *parser) parseClade(isRoot bool) (*tree.Node, error) {
	n := tree.NewNode("")
	if p.peek() == '(' {
		p.pos++ // consume '('
		for {
			child, err := p.parseClade(false)
			if err != nil {
				return nil, err
			}
			tree.Attach(n, child)
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		if p.peek() != ')' {
			return nil, ebderr.Newf(ebderr.InputFormat, "expected ')' at position %d", p.pos)
		}
		p.pos++ // consume ')'
	}
	label := p.parseLabel()
	if !n.Tip() {
		if supp, err := parseNumeric(label); err == nil {
			n.SetSupport(supp)
		} else {
			n.SetName(label)
		}
	} else {
		n.SetName(label)
	}
	if p.peek() == ':' {
		p.pos++
		lenTok := p.parseNumberToken()
		val, err := parseNumeric(lenTok)
		if err != nil {
			return nil, ebderr.Wrapf(ebderr.InputFormat, err, "bad branch length %q", lenTok)
		}
		n.SetLength(val)
	} else if !isRoot {
		p.log.Warn().Str("node", n.Name()).Msg("missing branch length, treated as zero")
		n.SetLength(0)
	}
	return n, nil
}

func (p *parser) parseLabel() string {
	start := p.pos
	if p.peek() == '\'' {
		p.pos++
		start = p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '\'' {
			p.pos++
		}
		label := p.src[start:p.pos]
		if p.pos < len(p.src) {
			p.pos++ // consume closing quote
		}
		return label
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || c == ':' || c == '(' {
			break
		}
		p.pos++
	}
	label := strings.TrimSpace(p.src[start:p.pos])
	label = strings.ReplaceAll(label, "_", " ")
	return label
}

func (p *parser) parseNumberToken() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ')' || c == '(' {
			break
		}
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

func parseNumeric(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
