// Package script implements the small command language used by the
// authoring REPL: a command name followed by identifiers, numbers, quoted
// strings and bracketed arrays, which may nest.
package script

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Number) isNode()     {}
func (String) isNode()     {}
func (Array) isNode()      {}

type Identifier string
type Number float64
type String string
type Array []Node

type Command struct {
	Name Identifier
	Args []Node
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		arg, err := p.node(token)
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) node(t token) (Node, error) {
	switch t.typ {
	case typeIdentifier:
		return Identifier(t.text), nil
	case typeString:
		return String(t.text[1 : len(t.text)-1]), nil
	case typeNumber:
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case typeLeftBracket:
		return p.array()
	}
	return nil, unexpected(t)
}

func (p *parser) array() (Array, error) {
	var arr Array
	for {
		t := p.next()
		switch t.typ {
		case typeRightBracket:
			return arr, nil
		case typeEOF:
			return nil, fmt.Errorf("unterminated array")
		}
		item, err := p.node(t)
		if err != nil {
			return nil, err
		}
		arr = append(arr, item)
	}
}

func unexpected(t token) error {
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
