package protoparse

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parser builds a File from scanner tokens. Comments are consumed and
// discarded.
type Parser struct {
	s   *Scanner
	tok Token
	err error
}

// NewParser creates a parser reading schema text from r
func NewParser(r io.Reader) *Parser {
	p := &Parser{s: NewScanner(r)}
	p.advance()
	return p
}

// Parse parses a complete schema document from src
func Parse(src string) (*File, error) {
	return NewParser(strings.NewReader(src)).ParseFile()
}

func (p *Parser) advance() {
	if p.err != nil {
		return
	}
	for {
		tok, err := p.s.Scan()
		if err != nil {
			p.err = fmt.Errorf("line %d: %w", tok.Pos.Line, err)
			p.tok = tok
			return
		}
		if tok.Type == TokenComment {
			continue
		}
		p.tok = tok
		return
	}
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	if p.err != nil {
		return p.err
	}
	return fmt.Errorf("line %d: %s", p.tok.Pos.Line, fmt.Sprintf(format, args...))
}

func (p *Parser) isIdent(text string) bool {
	return p.tok.Type == TokenIdentifier && p.tok.Text == text
}

func (p *Parser) isPunct(text string) bool {
	return p.tok.Type == TokenPunctuation && p.tok.Text == text
}

func (p *Parser) expectIdent() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.tok.Type != TokenIdentifier {
		return "", p.errorf("expected identifier, got %q", p.tok.Text)
	}
	text := p.tok.Text
	p.advance()
	return text, p.err
}

func (p *Parser) expectPunct(text string) error {
	if p.err != nil {
		return p.err
	}
	if !p.isPunct(text) {
		return p.errorf("expected %q, got %q", text, p.tok.Text)
	}
	p.advance()
	return p.err
}

func (p *Parser) expectInt() (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if p.tok.Type != TokenNumber {
		return 0, p.errorf("expected number, got %q", p.tok.Text)
	}
	n, err := strconv.Atoi(p.tok.Text)
	if err != nil {
		return 0, p.errorf("invalid number %q", p.tok.Text)
	}
	p.advance()
	return n, p.err
}

// ParseFile parses the entire document
func (p *Parser) ParseFile() (*File, error) {
	f := &File{}
	for p.tok.Type != TokenEOF {
		if p.err != nil {
			return nil, p.err
		}
		switch {
		case p.isIdent("syntax"):
			p.advance()
			if err := p.expectPunct("="); err != nil {
				return nil, err
			}
			if p.tok.Type != TokenString {
				return nil, p.errorf("expected syntax string, got %q", p.tok.Text)
			}
			f.Syntax = p.tok.Text
			p.advance()
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
		case p.isIdent("package"):
			p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			f.Package = name
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
		case p.isIdent("import"):
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			f.Imports = append(f.Imports, imp)
		case p.isIdent("option"):
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			f.Options = append(f.Options, opt)
		case p.isIdent("message"):
			m, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			f.Messages = append(f.Messages, m)
		case p.isIdent("enum"):
			e, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			f.Enums = append(f.Enums, e)
		case p.isIdent("service"):
			s, err := p.parseService()
			if err != nil {
				return nil, err
			}
			f.Services = append(f.Services, s)
		case p.isPunct(";"):
			p.advance()
		default:
			return nil, p.errorf("unexpected %q at top level", p.tok.Text)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	if f.isEmpty() {
		return nil, fmt.Errorf("document contains no declarations")
	}
	return f, nil
}

// isEmpty reports whether the document carried no statements at all.
// An input of only whitespace and comments scans cleanly, so the
// parser has to reject it here rather than treat it as a valid file.
func (f *File) isEmpty() bool {
	return f.Syntax == "" && f.Package == "" &&
		len(f.Imports) == 0 && len(f.Options) == 0 &&
		len(f.Messages) == 0 && len(f.Enums) == 0 && len(f.Services) == 0
}

func (p *Parser) parseImport() (Import, error) {
	p.advance() // "import"
	var imp Import
	if p.isIdent("public") {
		imp.Public = true
		p.advance()
	} else if p.isIdent("weak") {
		imp.Weak = true
		p.advance()
	}
	if p.tok.Type != TokenString {
		return imp, p.errorf("expected import path, got %q", p.tok.Text)
	}
	imp.Path = p.tok.Text
	p.advance()
	if err := p.expectPunct(";"); err != nil {
		return imp, err
	}
	return imp, nil
}

// parseOption parses `option <name> = <constant>;`. Aggregate option
// values are not supported.
func (p *Parser) parseOption() (Option, error) {
	p.advance() // "option"
	var opt Option
	name, err := p.parseOptionName()
	if err != nil {
		return opt, err
	}
	opt.Name = name
	if err := p.expectPunct("="); err != nil {
		return opt, err
	}
	value, err := p.parseConstant()
	if err != nil {
		return opt, err
	}
	opt.Value = value
	if err := p.expectPunct(";"); err != nil {
		return opt, err
	}
	return opt, nil
}

func (p *Parser) parseOptionName() (string, error) {
	var sb strings.Builder
	if p.isPunct("(") {
		p.advance()
		inner, err := p.expectIdent()
		if err != nil {
			return "", err
		}
		if err := p.expectPunct(")"); err != nil {
			return "", err
		}
		sb.WriteString("(")
		sb.WriteString(inner)
		sb.WriteString(")")
		if p.tok.Type == TokenIdentifier && strings.HasPrefix(p.tok.Text, ".") {
			sb.WriteString(p.tok.Text)
			p.advance()
		}
		return sb.String(), p.err
	}
	return p.expectIdent()
}

// parseConstant returns the option value in print-ready form: string
// constants keep their quotes, everything else is taken verbatim.
func (p *Parser) parseConstant() (string, error) {
	if p.err != nil {
		return "", p.err
	}
	switch p.tok.Type {
	case TokenString:
		value := strconv.Quote(p.tok.Text)
		p.advance()
		return value, p.err
	case TokenIdentifier, TokenNumber:
		value := p.tok.Text
		p.advance()
		return value, p.err
	default:
		return "", p.errorf("expected option value, got %q", p.tok.Text)
	}
}

func (p *Parser) parseMessage() (*Message, error) {
	p.advance() // "message"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	m := &Message{Name: name}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.err != nil {
			return nil, p.err
		}
		switch {
		case p.tok.Type == TokenEOF:
			return nil, p.errorf("unexpected end of input in message %s", m.Name)
		case p.isPunct(";"):
			p.advance()
		case p.isIdent("option"):
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			m.Options = append(m.Options, opt)
		case p.isIdent("reserved"):
			if err := p.parseReserved(m); err != nil {
				return nil, err
			}
		case p.isIdent("message"):
			nested, err := p.parseMessage()
			if err != nil {
				return nil, err
			}
			m.Messages = append(m.Messages, nested)
		case p.isIdent("enum"):
			nested, err := p.parseEnum()
			if err != nil {
				return nil, err
			}
			m.Enums = append(m.Enums, nested)
		case p.isIdent("oneof"):
			oneOf, err := p.parseOneOf()
			if err != nil {
				return nil, err
			}
			m.OneOfs = append(m.OneOfs, oneOf)
		case p.isIdent("extensions"):
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
		default:
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			m.Fields = append(m.Fields, field)
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *Parser) parseReserved(m *Message) error {
	p.advance() // "reserved"
	if p.tok.Type == TokenString {
		for {
			m.ReservedNames = append(m.ReservedNames, p.tok.Text)
			p.advance()
			if !p.isPunct(",") {
				break
			}
			p.advance()
			if p.tok.Type != TokenString {
				return p.errorf("expected reserved name, got %q", p.tok.Text)
			}
		}
		return p.expectPunct(";")
	}
	for {
		lo, err := p.expectInt()
		if err != nil {
			return err
		}
		hi := lo
		if p.isIdent("to") {
			p.advance()
			if p.isIdent("max") {
				hi = MaxTag
				p.advance()
			} else {
				hi, err = p.expectInt()
				if err != nil {
					return err
				}
			}
		}
		if hi < lo {
			return p.errorf("invalid reserved range %d to %d", lo, hi)
		}
		m.ReservedTags = append(m.ReservedTags, TagRange{Lo: lo, Hi: hi})
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}
	return p.expectPunct(";")
}

func (p *Parser) parseOneOf() (*OneOf, error) {
	p.advance() // "oneof"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	o := &OneOf{Name: name}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.err != nil {
			return nil, p.err
		}
		switch {
		case p.tok.Type == TokenEOF:
			return nil, p.errorf("unexpected end of input in oneof %s", o.Name)
		case p.isPunct(";"):
			p.advance()
		case p.isIdent("option"):
			if _, err := p.parseOption(); err != nil {
				return nil, err
			}
		default:
			field, err := p.parseField()
			if err != nil {
				return nil, err
			}
			o.Fields = append(o.Fields, field)
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return o, nil
}

func (p *Parser) parseField() (*Field, error) {
	if p.tok.Type != TokenIdentifier {
		return nil, p.errorf("expected field declaration, got %q", p.tok.Text)
	}
	f := &Field{}
	switch p.tok.Text {
	case "optional", "required", "repeated":
		f.Label = p.tok.Text
		p.advance()
	}
	if p.isIdent("map") {
		p.advance()
		if err := p.expectPunct("<"); err != nil {
			return nil, err
		}
		keyType, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		valueType, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, err
		}
		f.KeyType = keyType
		f.ValueType = valueType
		f.Type = fmt.Sprintf("map<%s, %s>", keyType, valueType)
	} else {
		fieldType, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		f.Type = fieldType
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	f.Name = name
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	tag, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	f.Tag = tag
	if p.isPunct("[") {
		opts, err := p.parseFieldOptions()
		if err != nil {
			return nil, err
		}
		f.Options = opts
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseFieldOptions() ([]Option, error) {
	p.advance() // "["
	var opts []Option
	for {
		name, err := p.parseOptionName()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("="); err != nil {
			return nil, err
		}
		value, err := p.parseConstant()
		if err != nil {
			return nil, err
		}
		opts = append(opts, Option{Name: name, Value: value})
		if !p.isPunct(",") {
			break
		}
		p.advance()
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return opts, nil
}

func (p *Parser) parseEnum() (*Enum, error) {
	p.advance() // "enum"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	e := &Enum{Name: name}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.err != nil {
			return nil, p.err
		}
		switch {
		case p.tok.Type == TokenEOF:
			return nil, p.errorf("unexpected end of input in enum %s", e.Name)
		case p.isPunct(";"):
			p.advance()
		case p.isIdent("option"):
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			e.Options = append(e.Options, opt)
		case p.isIdent("reserved"):
			// accepted for round-tripping but not tracked
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
		default:
			v, err := p.parseEnumValue()
			if err != nil {
				return nil, err
			}
			e.Values = append(e.Values, v)
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Parser) parseEnumValue() (*EnumValue, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	v := &EnumValue{Name: name}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	tag, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	v.Tag = tag
	if p.isPunct("[") {
		opts, err := p.parseFieldOptions()
		if err != nil {
			return nil, err
		}
		v.Options = opts
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *Parser) parseService() (*Service, error) {
	p.advance() // "service"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	s := &Service{Name: name}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		if p.err != nil {
			return nil, p.err
		}
		switch {
		case p.tok.Type == TokenEOF:
			return nil, p.errorf("unexpected end of input in service %s", s.Name)
		case p.isPunct(";"):
			p.advance()
		case p.isIdent("option"):
			opt, err := p.parseOption()
			if err != nil {
				return nil, err
			}
			s.Options = append(s.Options, opt)
		case p.isIdent("rpc"):
			rpc, err := p.parseRPC()
			if err != nil {
				return nil, err
			}
			s.RPCs = append(s.RPCs, rpc)
		default:
			return nil, p.errorf("unexpected %q in service %s", p.tok.Text, s.Name)
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseRPC() (*RPC, error) {
	p.advance() // "rpc"
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	rpc := &RPC{Name: name}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.isIdent("stream") {
		rpc.RequestStreaming = true
		p.advance()
	}
	rpc.RequestType, err = p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if !p.isIdent("returns") {
		return nil, p.errorf("expected \"returns\", got %q", p.tok.Text)
	}
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if p.isIdent("stream") {
		rpc.ResponseStreaming = true
		p.advance()
	}
	rpc.ResponseType, err = p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if p.isPunct("{") {
		p.advance()
		for !p.isPunct("}") {
			if p.err != nil {
				return nil, p.err
			}
			switch {
			case p.tok.Type == TokenEOF:
				return nil, p.errorf("unexpected end of input in rpc %s", rpc.Name)
			case p.isPunct(";"):
				p.advance()
			case p.isIdent("option"):
				opt, err := p.parseOption()
				if err != nil {
					return nil, err
				}
				rpc.Options = append(rpc.Options, opt)
			default:
				return nil, p.errorf("unexpected %q in rpc %s", p.tok.Text, rpc.Name)
			}
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		return rpc, nil
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return rpc, nil
}

// skipStatement consumes tokens up to and including the next semicolon
func (p *Parser) skipStatement() error {
	for !p.isPunct(";") {
		if p.tok.Type == TokenEOF {
			return p.errorf("unexpected end of input")
		}
		if p.err != nil {
			return p.err
		}
		p.advance()
	}
	p.advance()
	return p.err
}
