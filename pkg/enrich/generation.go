package enrich

import "sync/atomic"

// Token identifies one render. The zero Token is never current.
type Token uint64

// Generation issues render tokens. Only the most recently issued token is
// current. The zero value is ready to use and safe for concurrent use.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new render and returns its token. Every earlier token
// becomes stale.
func (g *Generation) Next() Token {
	return Token(g.n.Add(1))
}

// Current returns the most recently issued token.
func (g *Generation) Current() Token {
	return Token(g.n.Load())
}

// IsCurrent reports whether t is the most recently issued token.
// A nil Generation treats every token as current.
func (g *Generation) IsCurrent(t Token) bool {
	if g == nil {
		return true
	}
	return t != 0 && Token(g.n.Load()) == t
}
