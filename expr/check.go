package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports where an expression stopped parsing.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

// Check parses s with the target expression grammar and reports the first
// syntax error. Function names are checked against the engine's known
// functions because the engine rejects unknown calls at parse time.
func Check(s string) error {
	toks, err := lex(s)
	if err != nil {
		return err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tkEOF {
		return &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	if err := p.expr(); err != nil {
		return err
	}
	if t := p.peek(); t.kind != tkEOF {
		return p.errorf(t, "unexpected %q", t.text)
	}
	return nil
}

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkNumber
	tkString
	tkColumn
	tkIdent
	tkVar
	tkOp
	tkLParen
	tkRParen
	tkComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var operators = []string{"||", "<=", ">=", "<>", "!=", "==", "//", "=", "<", ">", "+", "-", "*", "/", "%", "^", "~"}

func isIdentStart(r rune) bool { return r == '_' || r == '$' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return isIdentStart(r) || unicode.IsDigit(r) }

func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += w
		case r == '(':
			toks = append(toks, token{tkLParen, "(", i})
			i++
		case r == ')':
			toks = append(toks, token{tkRParen, ")", i})
			i++
		case r == ',':
			toks = append(toks, token{tkComma, ",", i})
			i++
		case r == '\'' || r == '"':
			end, err := scanQuoted(s, i, byte(r))
			if err != nil {
				return nil, err
			}
			kind := tkString
			if r == '"' {
				kind = tkColumn
			}
			toks = append(toks, token{kind, s[i:end], i})
			i = end
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9'):
			end := scanNumber(s, i)
			toks = append(toks, token{tkNumber, s[i:end], i})
			i = end
		case r == '@':
			end := i + 1
			for end < len(s) {
				r, w := utf8.DecodeRuneInString(s[end:])
				if !isIdentPart(r) {
					break
				}
				end += w
			}
			if end == i+1 {
				return nil, &SyntaxError{Pos: i, Msg: "empty variable name"}
			}
			toks = append(toks, token{tkVar, s[i:end], i})
			i = end
		case isIdentStart(r):
			end := i
			for end < len(s) {
				r, w := utf8.DecodeRuneInString(s[end:])
				if !isIdentPart(r) {
					break
				}
				end += w
			}
			toks = append(toks, token{tkIdent, s[i:end], i})
			i = end
		default:
			op := ""
			for _, o := range operators {
				if strings.HasPrefix(s[i:], o) {
					op = o
					break
				}
			}
			if op == "" {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
			}
			toks = append(toks, token{tkOp, op, i})
			i += len(op)
		}
	}
	return append(toks, token{tkEOF, "", len(s)}), nil
}

// scanQuoted returns the index after the closing quote. Backslash escapes the
// next character and a doubled quote stands for itself.
func scanQuoted(s string, start int, q byte) (int, error) {
	i := start + 1
	for i < len(s) {
		switch s[i] {
		case '\\':
			i += 2
			continue
		case q:
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1, nil
		}
		i++
	}
	return 0, &SyntaxError{Pos: start, Msg: "unterminated quote"}
}

func scanNumber(s string, i int) int {
	digits := func() {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	digits()
	if i < len(s) && s[i] == '.' {
		i++
		digits()
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			i = j
			digits()
		}
	}
	return i
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tkEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...interface{}) error {
	return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) keyword(words ...string) bool {
	t := p.peek()
	if t.kind != tkIdent {
		return false
	}
	for _, w := range words {
		if strings.EqualFold(t.text, w) {
			return true
		}
	}
	return false
}

func (p *parser) keywordAt(off int, word string) bool {
	if p.pos+off >= len(p.toks) {
		return false
	}
	t := p.toks[p.pos+off]
	return t.kind == tkIdent && strings.EqualFold(t.text, word)
}

func (p *parser) op(ops ...string) bool {
	t := p.peek()
	if t.kind != tkOp {
		return false
	}
	for _, o := range ops {
		if t.text == o {
			return true
		}
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) error {
	if t := p.peek(); t.kind != kind {
		if t.kind == tkEOF {
			return p.errorf(t, "expected %s, got end of expression", what)
		}
		return p.errorf(t, "expected %s, got %q", what, t.text)
	}
	p.next()
	return nil
}

func (p *parser) expr() error { return p.or() }

func (p *parser) or() error {
	if err := p.and(); err != nil {
		return err
	}
	for p.keyword("or") {
		p.next()
		if err := p.and(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) and() error {
	if err := p.not(); err != nil {
		return err
	}
	for p.keyword("and") {
		p.next()
		if err := p.not(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) not() error {
	if p.keyword("not") {
		p.next()
		return p.not()
	}
	return p.comparison()
}

func (p *parser) comparison() error {
	if err := p.concat(); err != nil {
		return err
	}
	for {
		switch {
		case p.op("=", "==", "!=", "<>", "<", ">", "<=", ">=", "~"):
			p.next()
		case p.keyword("like", "ilike"):
			p.next()
		case p.keyword("is"):
			p.next()
			if p.keyword("not") {
				p.next()
			}
		case p.keyword("in"):
			p.next()
			if err := p.list(); err != nil {
				return err
			}
			continue
		case p.keyword("not") && (p.keywordAt(1, "like") || p.keywordAt(1, "ilike")):
			p.next()
			p.next()
		case p.keyword("not") && p.keywordAt(1, "in"):
			p.next()
			p.next()
			if err := p.list(); err != nil {
				return err
			}
			continue
		default:
			return nil
		}
		if err := p.concat(); err != nil {
			return err
		}
	}
}

func (p *parser) list() error {
	if err := p.expect(tkLParen, "'('"); err != nil {
		return err
	}
	if err := p.args(); err != nil {
		return err
	}
	return p.expect(tkRParen, "')'")
}

// args parses a possibly empty comma separated expression list.
func (p *parser) args() error {
	if p.peek().kind == tkRParen {
		return nil
	}
	for {
		if err := p.expr(); err != nil {
			return err
		}
		if p.peek().kind != tkComma {
			return nil
		}
		p.next()
	}
}

func (p *parser) concat() error {
	return p.binary(p.additive, "||")
}

func (p *parser) additive() error {
	return p.binary(p.multiplicative, "+", "-")
}

func (p *parser) multiplicative() error {
	return p.binary(p.power, "*", "/", "//", "%")
}

func (p *parser) power() error {
	return p.binary(p.unary, "^")
}

func (p *parser) binary(operand func() error, ops ...string) error {
	if err := operand(); err != nil {
		return err
	}
	for p.op(ops...) {
		p.next()
		if err := operand(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) unary() error {
	if p.op("-", "+") {
		p.next()
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() error {
	t := p.peek()
	switch t.kind {
	case tkNumber, tkString, tkColumn, tkVar:
		p.next()
		return nil
	case tkLParen:
		p.next()
		if err := p.expr(); err != nil {
			return err
		}
		return p.expect(tkRParen, "')'")
	case tkIdent:
		switch strings.ToLower(t.text) {
		case "case":
			return p.caseExpr()
		case "and", "or", "not", "in", "like", "ilike", "is", "when", "then", "else", "end":
			return p.errorf(t, "unexpected keyword %q", t.text)
		case "null", "true", "false":
			p.next()
			return nil
		}
		p.next()
		if p.peek().kind != tkLParen {
			// bare column name
			return nil
		}
		if !knownFunctions[strings.ToLower(t.text)] {
			return p.errorf(t, "function %s is not known", t.text)
		}
		p.next()
		if err := p.args(); err != nil {
			return err
		}
		return p.expect(tkRParen, "')'")
	case tkEOF:
		return p.errorf(t, "unexpected end of expression")
	}
	return p.errorf(t, "unexpected %q", t.text)
}

func (p *parser) caseExpr() error {
	p.next()
	if !p.keyword("when") {
		return p.errorf(p.peek(), "expected WHEN")
	}
	for p.keyword("when") {
		p.next()
		if err := p.expr(); err != nil {
			return err
		}
		if !p.keyword("then") {
			return p.errorf(p.peek(), "expected THEN")
		}
		p.next()
		if err := p.expr(); err != nil {
			return err
		}
	}
	if p.keyword("else") {
		p.next()
		if err := p.expr(); err != nil {
			return err
		}
	}
	if !p.keyword("end") {
		return p.errorf(p.peek(), "expected END")
	}
	p.next()
	return nil
}
