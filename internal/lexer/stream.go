package lexer

import "minicc/internal/token"

// TokenStream is a single-threaded deque over a Lexer: next() removes and
// returns the front token (lexing lazily when empty), peek(k) returns the
// token at offset k without removing it (lexing forward as needed), and
// push_back restores a token to the front. The parser holds its current
// token outside the stream and only ever calls Peek(0) for its one token
// of lookahead (LL(2)), but peek is unbounded.
type TokenStream struct {
	lex  *Lexer
	buf  []token.Token // pending tokens, front at index 0
	done bool          // true once EOF has been produced into buf
}

// NewTokenStream wraps a Lexer in a TokenStream.
func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{lex: l}
}

// fill ensures at least n+1 tokens are buffered (indices 0..n), lexing
// forward as needed. Once EOF has been buffered, further fills just repeat
// it (or, if it was already consumed, ask the lexer again, which keeps
// returning EOF): the stream never lexes past end-of-input.
func (s *TokenStream) fill(n int) {
	for len(s.buf) <= n {
		if s.done && len(s.buf) > 0 {
			s.buf = append(s.buf, s.buf[len(s.buf)-1])
			continue
		}
		tok := s.lex.Next()
		s.buf = append(s.buf, tok)
		if tok.Kind == token.EOF {
			s.done = true
		}
	}
}

// Next removes and returns the front token.
func (s *TokenStream) Next() token.Token {
	s.fill(0)
	tok := s.buf[0]
	s.buf = s.buf[1:]
	return tok
}

// Peek returns the token k positions ahead of the front without consuming
// it; Peek(0) is the current (next-to-be-consumed) token.
func (s *TokenStream) Peek(k int) token.Token {
	s.fill(k)
	return s.buf[k]
}

// PushBack restores tok to the front of the stream, to be returned again by
// the next Next() call.
func (s *TokenStream) PushBack(tok token.Token) {
	s.buf = append([]token.Token{tok}, s.buf...)
}
