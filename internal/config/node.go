// Package config implements a brace-delimited, block-structured textual DSL
// (flight_controls, propulsion_data, landing_gear, aero, mass_properties,
// sequencer, zone, zone_set, noise_cloud, pathfinder, terrainpathfinder,
// navigationmesh). It is a hand-rolled recursive-descent parser (tokenize,
// build a typed tree, strconv-convert leaf values) since the grammar is
// bespoke: text/scanner plus hand-written descent is the right tool for a
// format that isn't XML or any other off-the-shelf encoding.
//
// Grammar:
//
//	statement := IDENT arg* ( ';' | block )
//	block     := '{' statement* '}'
//	arg       := IDENT | NUMBER | STRING
//
// Every leaf statement must be terminated by ';'; every block is terminated
// by '}'. Comments are '//' to end of line (scanner.ScanComments).
package config

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// Node is one block or command in the parsed tree. A leaf command like
// `scalar_gain 1.5;` becomes a Node with Name="scalar_gain", Args=["1.5"],
// and no children; a block like `flight_controls { ... }` becomes a Node
// with nested Children.
type Node struct {
	Name     string
	Args     []string
	Children []*Node
	Line     int
}

// Arg returns the i'th argument or "" if absent.
func (n *Node) Arg(i int) string {
	if i < 0 || i >= len(n.Args) {
		return ""
	}
	return n.Args[i]
}

// Float parses the i'th argument as a float64, returning a BadValue tied
// to this node's line on failure.
func (n *Node) Float(i int, file string) (float64, error) {
	s := n.Arg(i)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &BadValue{File: file, Line: n.Line, Reason: fmt.Sprintf("%s: expected number, got %q", n.Name, s)}
	}
	return v, nil
}

// Bool parses the i'th argument as a bool ("true"/"false"/"1"/"0").
func (n *Node) Bool(i int, file string) (bool, error) {
	s := strings.ToLower(n.Arg(i))
	switch s {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no", "":
		return false, nil
	default:
		return false, &BadValue{File: file, Line: n.Line, Reason: fmt.Sprintf("%s: expected bool, got %q", n.Name, s)}
	}
}

// Find returns the first direct child with the given name, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given name.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Parse tokenizes and parses src into a synthetic root Node whose children
// are the top-level blocks. file is used only for error locations.
func Parse(src string, file string) (*Node, error) {
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	s.Filename = file

	p := &parser{s: &s, file: file}
	root := &Node{Name: "root"}
	for {
		tok := p.s.Scan()
		if tok == scanner.EOF {
			break
		}
		n, err := p.parseStatement(tok)
		if err != nil {
			return nil, err
		}
		root.Children = append(root.Children, n)
	}
	return root, nil
}

type parser struct {
	s    *scanner.Scanner
	file string
}

// parseStatement parses one statement given its already-scanned leading
// identifier token.
func (p *parser) parseStatement(nameTok rune) (*Node, error) {
	if nameTok != scanner.Ident {
		return nil, &BadValue{File: p.file, Line: p.s.Line, Reason: fmt.Sprintf("expected identifier, got %q", p.s.TokenText())}
	}
	node := &Node{Name: p.s.TokenText(), Line: p.s.Line}

	for {
		tok := p.s.Scan()
		switch tok {
		case scanner.EOF:
			return nil, &BadValue{File: p.file, Line: p.s.Line, Reason: fmt.Sprintf("%s: unterminated statement (missing ';' or '{')", node.Name)}
		case ';':
			return node, nil
		case '}':
			return nil, &BadValue{File: p.file, Line: p.s.Line, Reason: fmt.Sprintf("%s: unterminated statement (missing ';' before '}')", node.Name)}
		case '{':
			for {
				childTok := p.s.Scan()
				if childTok == '}' {
					return node, nil
				}
				if childTok == scanner.EOF {
					return nil, &BadValue{File: p.file, Line: p.s.Line, Reason: fmt.Sprintf("%s: unterminated block (missing '}')", node.Name)}
				}
				child, err := p.parseStatement(childTok)
				if err != nil {
					return nil, err
				}
				node.Children = append(node.Children, child)
			}
		case '-':
			numTok := p.s.Scan()
			if numTok != scanner.Float && numTok != scanner.Int {
				return nil, &BadValue{File: p.file, Line: p.s.Line, Reason: fmt.Sprintf("%s: expected number after '-'", node.Name)}
			}
			node.Args = append(node.Args, "-"+p.s.TokenText())
		case scanner.String:
			node.Args = append(node.Args, strings.Trim(p.s.TokenText(), `"`))
		default:
			node.Args = append(node.Args, p.s.TokenText())
		}
	}
}
