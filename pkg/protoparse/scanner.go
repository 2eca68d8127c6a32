package protoparse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of token
type TokenType string

const (
	TokenIdentifier  TokenType = "IDENTIFIER"
	TokenString      TokenType = "STRING"
	TokenNumber      TokenType = "NUMBER"
	TokenPunctuation TokenType = "PUNCTUATION"
	TokenComment     TokenType = "COMMENT"
	TokenEOF         TokenType = "EOF"
	TokenError       TokenType = "ERROR"
)

// Token represents a lexical token
type Token struct {
	Type TokenType
	Text string
	Pos  Position
}

// Position identifies a location in the source text
type Position struct {
	Line   int
	Column int
}

// Scanner is a lexical scanner for protobuf schema text
type Scanner struct {
	r      *bufio.Reader
	ch     rune // current character, -1 at EOF
	line   int
	column int
}

// NewScanner creates a new Scanner
func NewScanner(r io.Reader) *Scanner {
	s := &Scanner{
		r:      bufio.NewReader(r),
		line:   1,
		column: 0,
	}
	s.next()
	return s
}

// next reads the next character into s.ch and updates line/column
func (s *Scanner) next() {
	r, _, err := s.r.ReadRune()
	if err != nil {
		s.ch = -1
		return
	}
	if s.ch == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.ch = r
}

// peek returns the next rune without advancing
func (s *Scanner) peek() (rune, error) {
	r, _, err := s.r.ReadRune()
	if err != nil {
		return 0, err
	}
	if err := s.r.UnreadRune(); err != nil {
		return 0, err
	}
	return r, nil
}

func (s *Scanner) skipWhitespace() {
	for unicode.IsSpace(s.ch) {
		s.next()
	}
}

func (s *Scanner) scanIdentifier() string {
	var sb strings.Builder
	for unicode.IsLetter(s.ch) || unicode.IsDigit(s.ch) || s.ch == '_' || s.ch == '.' {
		sb.WriteRune(s.ch)
		s.next()
	}
	return sb.String()
}

func (s *Scanner) scanNumber() string {
	var sb strings.Builder
	if s.ch == '-' || s.ch == '+' {
		sb.WriteRune(s.ch)
		s.next()
	}
	for unicode.IsDigit(s.ch) || s.ch == '.' || s.ch == 'e' || s.ch == 'E' || s.ch == 'x' || s.ch == 'X' ||
		(s.ch >= 'a' && s.ch <= 'f') || (s.ch >= 'A' && s.ch <= 'F') {
		sb.WriteRune(s.ch)
		s.next()
	}
	return sb.String()
}

func (s *Scanner) scanString() (string, error) {
	quote := s.ch
	s.next()

	var sb strings.Builder
	for s.ch != quote && s.ch != -1 {
		if s.ch == '\\' {
			s.next()
			switch s.ch {
			case 'n':
				sb.WriteRune('\n')
			case 'r':
				sb.WriteRune('\r')
			case 't':
				sb.WriteRune('\t')
			case '\\', '"', '\'':
				sb.WriteRune(s.ch)
			default:
				return "", fmt.Errorf("invalid escape sequence: \\%c", s.ch)
			}
		} else {
			sb.WriteRune(s.ch)
		}
		s.next()
	}

	if s.ch != quote {
		return "", fmt.Errorf("unterminated string")
	}
	s.next()

	return sb.String(), nil
}

func (s *Scanner) scanComment() string {
	var sb strings.Builder
	sb.WriteRune(s.ch)
	s.next()

	if s.ch == '/' {
		sb.WriteRune(s.ch)
		s.next()
		for s.ch != '\n' && s.ch != -1 {
			sb.WriteRune(s.ch)
			s.next()
		}
	} else if s.ch == '*' {
		sb.WriteRune(s.ch)
		s.next()
		for {
			if s.ch == '*' {
				sb.WriteRune(s.ch)
				s.next()
				if s.ch == '/' {
					sb.WriteRune(s.ch)
					s.next()
					break
				}
			} else if s.ch == -1 {
				break
			} else {
				sb.WriteRune(s.ch)
				s.next()
			}
		}
	}

	return sb.String()
}

// Scan returns the next token
func (s *Scanner) Scan() (Token, error) {
	s.skipWhitespace()

	tok := Token{Pos: Position{Line: s.line, Column: s.column}}

	switch {
	case s.ch == -1:
		tok.Type = TokenEOF
	case unicode.IsLetter(s.ch) || s.ch == '_' || s.ch == '.':
		tok.Type = TokenIdentifier
		tok.Text = s.scanIdentifier()
	case unicode.IsDigit(s.ch) || s.ch == '-' || s.ch == '+':
		tok.Type = TokenNumber
		tok.Text = s.scanNumber()
	case s.ch == '"' || s.ch == '\'':
		text, err := s.scanString()
		if err != nil {
			tok.Type = TokenError
			tok.Text = err.Error()
			return tok, err
		}
		tok.Type = TokenString
		tok.Text = text
	case s.ch == '/':
		next, err := s.peek()
		if err == nil && (next == '/' || next == '*') {
			tok.Type = TokenComment
			tok.Text = s.scanComment()
		} else {
			tok.Type = TokenPunctuation
			tok.Text = "/"
			s.next()
		}
	case isPunctuation(s.ch):
		tok.Type = TokenPunctuation
		tok.Text = string(s.ch)
		s.next()
	default:
		tok.Type = TokenError
		tok.Text = string(s.ch)
		ch := s.ch
		s.next()
		return tok, fmt.Errorf("unexpected character: %c", ch)
	}

	return tok, nil
}

func isPunctuation(r rune) bool {
	switch r {
	case ';', ',', '=', '{', '}', '[', ']', '(', ')', '<', '>', ':':
		return true
	default:
		return false
	}
}
