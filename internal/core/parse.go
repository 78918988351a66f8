// File: internal/core/parse.go
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The parsers below turn the free-text fragments typed at the prompt
// ("id INT PRIMARY KEY", "1,'Shiv'", "name = 'Dev'", "id = 1") into typed
// values. Nothing typed by the user reaches a statement except through
// an Ident or a bound argument.

var ErrSyntax = errors.New("syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokNumber
	tokString
	tokOp
	tokComma
	tokLParen
	tokRParen
	tokStar
)

type token struct {
	kind tokenKind
	text string
}

func lex(input string) ([]token, error) {
	var toks []token
	rs := []rune(input)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case r == '\'' || ((r == 'N' || r == 'n') && i+1 < len(rs) && rs[i+1] == '\''):
			if r != '\'' {
				i++
			}
			s, next, err := lexString(rs, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{tokString, s})
			i = next
		case r == '=' || r == '<' || r == '>' || r == '!':
			j := i + 1
			if j < len(rs) && (rs[j] == '=' || (r == '<' && rs[j] == '>')) {
				j++
			}
			op := string(rs[i:j])
			if op == "!" {
				return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, op)
			}
			toks = append(toks, token{tokOp, op})
			i = j
		case unicode.IsDigit(r) || ((r == '-' || r == '+' || r == '.') && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i + 1
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{tokNumber, string(rs[i:j])})
			i = j
		case r == '_' || unicode.IsLetter(r):
			j := i + 1
			for j < len(rs) && (rs[j] == '_' || rs[j] == '$' || unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j])) {
				j++
			}
			toks = append(toks, token{tokWord, string(rs[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q", ErrSyntax, string(r))
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

// lexString reads a single-quoted literal starting at rs[start]; a doubled
// quote is an escaped quote.
func lexString(rs []rune, start int) (string, int, error) {
	var sb strings.Builder
	for i := start + 1; i < len(rs); i++ {
		if rs[i] == '\'' {
			if i+1 < len(rs) && rs[i+1] == '\'' {
				sb.WriteRune('\'')
				i++
				continue
			}
			return sb.String(), i + 1, nil
		}
		sb.WriteRune(rs[i])
	}
	return "", 0, fmt.Errorf("%w: unterminated string", ErrSyntax)
}

type parser struct {
	toks []token
	pos  int
}

func newParser(input string) (*parser, error) {
	toks, err := lex(input)
	if err != nil {
		return nil, err
	}
	return &parser{toks: toks}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expectEOF() error {
	if t := p.peek(); t.kind != tokEOF {
		return fmt.Errorf("%w: unexpected %q", ErrSyntax, t.text)
	}
	return nil
}

func (p *parser) ident() (Ident, error) {
	t := p.next()
	if t.kind != tokWord {
		return "", fmt.Errorf("%w: expected a name, got %q", ErrSyntax, t.text)
	}
	return ParseIdent(t.text)
}

func (p *parser) literal() (interface{}, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return t.text, nil
	case tokNumber:
		if !strings.ContainsAny(t.text, ".") {
			n, err := strconv.ParseInt(t.text, 10, 64)
			if err == nil {
				return n, nil
			}
		}
		f, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrSyntax, t.text)
		}
		return f, nil
	case tokWord:
		switch strings.ToUpper(t.text) {
		case "NULL":
			return nil, nil
		case "TRUE":
			return true, nil
		case "FALSE":
			return false, nil
		}
	}
	return nil, fmt.Errorf("%w: expected a value, got %q (quote text as 'text')", ErrSyntax, t.text)
}

// ParseColumnList parses "a, b, c". An empty input or "*" yields nil,
// meaning every column.
func ParseColumnList(input string) ([]Ident, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokEOF {
		return nil, nil
	}
	if p.peek().kind == tokStar {
		p.next()
		return nil, p.expectEOF()
	}
	var cols []Ident
	for {
		id, err := p.ident()
		if err != nil {
			return nil, err
		}
		cols = append(cols, id)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	return cols, p.expectEOF()
}

// ParseValues parses "1, 'Shiv', NULL".
func ParseValues(input string) ([]interface{}, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	var vals []interface{}
	for {
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	return vals, p.expectEOF()
}

// ParseAssignments parses "FirstName = 'Dev', Age = 24".
func ParseAssignments(input string) ([]Assignment, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	var set []Assignment
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.kind != tokOp || t.text != "=" {
			return nil, fmt.Errorf("%w: expected '=' after %s", ErrSyntax, col)
		}
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		set = append(set, Assignment{Column: col, Value: v})
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	return set, p.expectEOF()
}

// ParseCondition parses "StudentID = 1 AND Age > 20". Empty input is an
// empty Condition.
func ParseCondition(input string) (Condition, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokEOF {
		return nil, nil
	}
	var cond Condition
	for {
		col, err := p.ident()
		if err != nil {
			return nil, err
		}
		t := p.next()
		if t.kind != tokOp || !validOps[t.text] {
			return nil, fmt.Errorf("%w: expected a comparison after %s", ErrSyntax, col)
		}
		v, err := p.literal()
		if err != nil {
			return nil, err
		}
		cond = append(cond, Predicate{Column: col, Op: t.text, Value: v})
		if nt := p.peek(); nt.kind != tokWord || !strings.EqualFold(nt.text, "AND") {
			break
		}
		p.next()
	}
	return cond, p.expectEOF()
}

var constraintWords = map[string]bool{
	"PRIMARY":        true,
	"KEY":            true,
	"NOT":            true,
	"NULL":           true,
	"UNIQUE":         true,
	"IDENTITY":       true,
	"AUTO_INCREMENT": true,
}

// rejectedWords start clauses that carry expressions or references to
// other objects; they are refused rather than read as part of a type.
var rejectedWords = map[string]bool{
	"DEFAULT":    true,
	"CHECK":      true,
	"REFERENCES": true,
	"FOREIGN":    true,
	"CONSTRAINT": true,
	"COLLATE":    true,
	"AS":         true,
}

// ParseColumnDefs parses a table structure such as
// "id INT PRIMARY KEY, name VARCHAR(255) NOT NULL".
func ParseColumnDefs(input string) ([]ColumnDef, error) {
	p, err := newParser(input)
	if err != nil {
		return nil, err
	}
	var defs []ColumnDef
	for {
		def, err := p.columnDef()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		if p.peek().kind != tokComma {
			break
		}
		p.next()
	}
	if err := p.expectEOF(); err != nil {
		return nil, err
	}
	return defs, nil
}

func (p *parser) columnDef() (ColumnDef, error) {
	name, err := p.ident()
	if err != nil {
		return ColumnDef{}, err
	}
	var words []string
	for t := p.peek(); t.kind == tokWord && !constraintWords[strings.ToUpper(t.text)]; t = p.peek() {
		if rejectedWords[strings.ToUpper(t.text)] {
			return ColumnDef{}, fmt.Errorf("%w: unsupported constraint %q", ErrSyntax, t.text)
		}
		if _, err := ParseIdent(t.text); err != nil {
			return ColumnDef{}, err
		}
		words = append(words, strings.ToUpper(t.text))
		p.next()
	}
	if len(words) == 0 {
		return ColumnDef{}, fmt.Errorf("%w: column %s has no type", ErrSyntax, name)
	}
	typ := strings.Join(words, " ")
	if p.peek().kind == tokLParen {
		args, err := p.typeArgs()
		if err != nil {
			return ColumnDef{}, err
		}
		typ += args
	}
	var constraints []string
	for t := p.peek(); t.kind == tokWord; t = p.peek() {
		w := strings.ToUpper(t.text)
		if !constraintWords[w] {
			return ColumnDef{}, fmt.Errorf("%w: unsupported constraint %q", ErrSyntax, t.text)
		}
		p.next()
		if w == "IDENTITY" && p.peek().kind == tokLParen {
			args, err := p.typeArgs()
			if err != nil {
				return ColumnDef{}, err
			}
			w += args
		}
		constraints = append(constraints, w)
	}
	return ColumnDef{Name: name, Type: typ, Constraints: constraints}, nil
}

// typeArgs reads "(n)", "(n,m)" or "(MAX)".
func (p *parser) typeArgs() (string, error) {
	p.next()
	var args []string
	for {
		t := p.next()
		switch {
		case t.kind == tokNumber && !strings.ContainsAny(t.text, ".+-"):
			args = append(args, t.text)
		case t.kind == tokWord && strings.EqualFold(t.text, "MAX"):
			args = append(args, "MAX")
		default:
			return "", fmt.Errorf("%w: bad type argument %q", ErrSyntax, t.text)
		}
		t = p.next()
		if t.kind == tokRParen {
			return "(" + strings.Join(args, ",") + ")", nil
		}
		if t.kind != tokComma {
			return "", fmt.Errorf("%w: expected ')'", ErrSyntax)
		}
	}
}
