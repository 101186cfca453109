package rdf

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse decodes Turtle-like text into a statement set. It accepts the
// output of Serialize plus hand-written ontology text: @prefix
// declarations, comments, the "a" shorthand for rdf:type, semicolon
// predicate chaining, and comma object lists. Prefixed names are expanded
// against the declared prefixes; the returned set carries that prefix
// table as its namespace table.
func Parse(text string) (*StatementSet, error) {
	p := &parser{in: []rune(text), ns: make(map[string]string)}
	set := NewStatementSet(p.ns)
	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		if p.peek() == '@' {
			if err := p.prefixDecl(); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.subjectBlock(set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

type parser struct {
	in  []rune
	pos int
	ns  map[string]string
}

func (p *parser) eof() bool  { return p.pos >= len(p.in) }
func (p *parser) peek() rune { return p.in[p.pos] }
func (p *parser) next() rune { r := p.in[p.pos]; p.pos++; return r }

// line reports the 1-based line number at the current position, for error
// messages.
func (p *parser) line() int {
	n := 1
	for i := 0; i < p.pos && i < len(p.in); i++ {
		if p.in[i] == '\n' {
			n++
		}
	}
	return n
}

// skipSpace consumes whitespace and # comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		r := p.peek()
		if unicode.IsSpace(r) {
			p.pos++
			continue
		}
		if r == '#' {
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		return
	}
}

// prefixDecl parses "@prefix name: <iri> ." and records the mapping.
func (p *parser) prefixDecl() error {
	word := p.bareWord()
	if word != "@prefix" {
		return fmt.Errorf("line %d: unsupported directive %q", p.line(), word)
	}
	p.skipSpace()
	name := p.readWhile(func(r rune) bool { return r != ':' && !unicode.IsSpace(r) })
	if p.eof() || p.next() != ':' {
		return fmt.Errorf("line %d: malformed prefix declaration", p.line())
	}
	p.skipSpace()
	if p.eof() || p.peek() != '<' {
		return fmt.Errorf("line %d: expected <iri> in prefix declaration", p.line())
	}
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.skipSpace()
	if p.eof() || p.next() != '.' {
		return fmt.Errorf("line %d: prefix declaration not terminated", p.line())
	}
	p.ns[name] = iri
	return nil
}

// subjectBlock parses one subject and its predicate-object list.
func (p *parser) subjectBlock(set *StatementSet) error {
	subject, err := p.iriTerm()
	if err != nil {
		return fmt.Errorf("line %d: subject: %w", p.line(), err)
	}
	for {
		p.skipSpace()
		if p.eof() {
			return fmt.Errorf("line %d: block for %s not terminated", p.line(), subject)
		}
		pred, err := p.predicateTerm()
		if err != nil {
			return fmt.Errorf("line %d: predicate: %w", p.line(), err)
		}
		for {
			p.skipSpace()
			obj, err := p.objectTerm()
			if err != nil {
				return fmt.Errorf("line %d: object: %w", p.line(), err)
			}
			set.Add(subject, pred, obj)
			p.skipSpace()
			if !p.eof() && p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		p.skipSpace()
		if p.eof() {
			return fmt.Errorf("line %d: block for %s not terminated", p.line(), subject)
		}
		switch r := p.next(); r {
		case ';':
			// A dangling semicolon before the period is tolerated.
			p.skipSpace()
			if !p.eof() && p.peek() == '.' {
				p.pos++
				return nil
			}
		case '.':
			return nil
		default:
			return fmt.Errorf("line %d: expected ';' or '.', got %q", p.line(), string(r))
		}
	}
}

// predicateTerm parses a predicate IRI or the "a" shorthand.
func (p *parser) predicateTerm() (string, error) {
	if p.peek() == 'a' {
		if p.pos+1 >= len(p.in) || unicode.IsSpace(p.in[p.pos+1]) {
			p.pos++
			return rdfTypeIRI, nil
		}
	}
	return p.iriTerm()
}

// objectTerm parses an IRI, a quoted literal, or a typed literal.
func (p *parser) objectTerm() (Object, error) {
	if p.eof() {
		return Object{}, fmt.Errorf("unexpected end of input")
	}
	if p.peek() == '"' {
		value, err := p.quotedString()
		if err != nil {
			return Object{}, err
		}
		if p.pos+1 < len(p.in) && p.in[p.pos] == '^' && p.in[p.pos+1] == '^' {
			p.pos += 2
			dt, err := p.iriTerm()
			if err != nil {
				return Object{}, fmt.Errorf("datatype: %w", err)
			}
			return Typed(value, dt), nil
		}
		return Literal(value), nil
	}
	iri, err := p.iriTerm()
	if err != nil {
		return Object{}, err
	}
	return IRI(iri), nil
}

// iriTerm parses <iri> or prefix:local and returns the expanded IRI.
func (p *parser) iriTerm() (string, error) {
	if p.eof() {
		return "", fmt.Errorf("unexpected end of input")
	}
	if p.peek() == '<' {
		return p.iriRef()
	}
	name := p.readWhile(func(r rune) bool {
		return !unicode.IsSpace(r) && r != ';' && r != ',' && r != '"' && r != '<' && r != '#'
	})
	// A trailing period belongs to the block, not the name.
	if strings.HasSuffix(name, ".") {
		name = name[:len(name)-1]
		p.pos--
	}
	if name == "" {
		return "", fmt.Errorf("expected IRI or prefixed name")
	}
	return ExpandIRI(name, p.ns)
}

// iriRef parses <...> and returns the enclosed IRI verbatim.
func (p *parser) iriRef() (string, error) {
	p.pos++ // consume '<'
	start := p.pos
	for !p.eof() && p.peek() != '>' {
		p.pos++
	}
	if p.eof() {
		return "", fmt.Errorf("line %d: unterminated IRI reference", p.line())
	}
	iri := string(p.in[start:p.pos])
	p.pos++ // consume '>'
	return iri, nil
}

// quotedString parses a double-quoted literal, handling the escapes the
// serializer emits.
func (p *parser) quotedString() (string, error) {
	p.pos++ // consume opening quote
	var sb strings.Builder
	for {
		if p.eof() {
			return "", fmt.Errorf("line %d: unterminated string literal", p.line())
		}
		r := p.next()
		switch r {
		case '"':
			return sb.String(), nil
		case '\\':
			if p.eof() {
				return "", fmt.Errorf("line %d: unterminated escape", p.line())
			}
			switch esc := p.next(); esc {
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case '"', '\\':
				sb.WriteRune(esc)
			default:
				return "", fmt.Errorf("line %d: invalid escape \\%s", p.line(), string(esc))
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// bareWord reads a run of non-space characters.
func (p *parser) bareWord() string {
	return p.readWhile(func(r rune) bool { return !unicode.IsSpace(r) })
}

// readWhile consumes characters satisfying keep and returns them.
func (p *parser) readWhile(keep func(rune) bool) string {
	start := p.pos
	for !p.eof() && keep(p.peek()) {
		p.pos++
	}
	return string(p.in[start:p.pos])
}
