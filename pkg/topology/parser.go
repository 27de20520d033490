// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

// Parse builds a request from tokens. It only checks the grammar; whether
// the groups fit together is decided by Validate.
//
//	group       := arrangement? unit+
//	arrangement := 'replica' Number
//	             | 'disperse' Number? ('redundancy' Number)?
//	             | 'stripe' Number
//	unit        := Address
//
// An arrangement applies to the whole run of addresses that follows it and
// cuts the run into groups of its count. Addresses with no arrangement before
// them become single-unit plain groups.
func Parse(tokens []Token) (*Request, error) {
	p := &parser{tokens: tokens}
	req := &Request{}

	for !p.done() {
		tok := p.peek()
		switch tok.Kind {
		case TokenAddress:
			for _, addr := range p.addresses() {
				req.Groups = append(req.Groups, Group{
					Arrangement: Arrangement{Kind: KindPlain},
					Units:       []string{addr},
				})
			}
		case TokenNumber:
			return nil, newParseError(ReasonUnexpectedNumber, tok)
		case TokenKeyword:
			groups, err := p.arrangedGroups()
			if err != nil {
				return nil, err
			}
			req.Groups = append(req.Groups, groups...)
		default:
			return nil, newParseError("unknown token", tok)
		}
	}

	return req, nil
}

type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the current token, or nil at end of input
func (p *parser) peek() *Token {
	if p.done() {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) next() *Token {
	tok := p.peek()
	if tok != nil {
		p.pos++
	}
	return tok
}

func (p *parser) peekKeyword(kw Keyword) bool {
	tok := p.peek()
	return tok != nil && tok.Kind == TokenKeyword && tok.Keyword == kw
}

// addresses consumes the run of address tokens at the current position
func (p *parser) addresses() []string {
	var run []string
	for tok := p.peek(); tok != nil && tok.Kind == TokenAddress; tok = p.peek() {
		run = append(run, tok.Raw)
		p.pos++
	}
	return run
}

// number consumes a required count following kw
func (p *parser) number(kw *Token) (int, error) {
	tok := p.peek()
	if tok == nil || tok.Kind != TokenNumber {
		return 0, newParseError(ReasonMissingCount, kw)
	}
	p.pos++
	return count(tok)
}

// maxCount bounds every count so group sizes stay within an int32
const maxCount = 1<<31 - 1

func count(tok *Token) (int, error) {
	if tok.Number > maxCount {
		return 0, newParseError(ReasonInvalidCount, tok)
	}
	return int(tok.Number), nil
}

func (p *parser) arrangedGroups() ([]Group, error) {
	kw := p.peek()
	arr, err := p.arrangement()
	if err != nil {
		return nil, err
	}

	run := p.addresses()
	if len(run) == 0 {
		next := p.peek()
		switch {
		case next == nil:
			return nil, newParseError(ReasonNoUnits, kw)
		case next.Kind == TokenNumber:
			return nil, newParseError(ReasonUnexpectedNumber, next)
		case next.Keyword == KeywordRedundancy && arr.Kind == KindDisperse:
			return nil, newParseError(ReasonDuplicateRedundancy, next)
		default:
			return nil, newParseError(ReasonConflictingArrangement, next)
		}
	}

	size, ok := arr.Count.Get()
	if !ok {
		// disperse without a count takes the whole run
		size = len(run)
	}
	if len(run)%size != 0 {
		return nil, newParseError(ReasonIncompleteGroup, &p.tokens[p.pos-1])
	}

	groups := make([]Group, 0, len(run)/size)
	for start := 0; start < len(run); start += size {
		units := make([]string, size)
		copy(units, run[start:start+size])
		groups = append(groups, Group{Arrangement: arr, Units: units})
	}
	return groups, nil
}

func (p *parser) arrangement() (Arrangement, error) {
	kw := p.next()

	switch kw.Keyword {
	case KeywordReplica, KeywordStripe:
		n, err := p.number(kw)
		if err != nil {
			return Arrangement{}, err
		}
		if n == 0 {
			return Arrangement{}, newParseError(ReasonInvalidCount, &p.tokens[p.pos-1])
		}
		kind := KindReplica
		if kw.Keyword == KeywordStripe {
			kind = KindStripe
		}
		return Arrangement{Kind: kind, Count: CountOf(n)}, nil

	case KeywordDisperse:
		arr := Arrangement{Kind: KindDisperse}
		if tok := p.peek(); tok != nil && tok.Kind == TokenNumber {
			p.pos++
			n, err := count(tok)
			if err != nil {
				return Arrangement{}, err
			}
			if n == 0 {
				return Arrangement{}, newParseError(ReasonInvalidCount, tok)
			}
			arr.Count = CountOf(n)
		}
		if p.peekKeyword(KeywordRedundancy) {
			red := p.next()
			n, err := p.number(red)
			if err != nil {
				return Arrangement{}, err
			}
			arr.Redundancy = CountOf(n)
		}
		return arr, nil

	case KeywordRedundancy:
		return Arrangement{}, newParseError(ReasonMisplacedRedundancy, kw)
	}

	return Arrangement{}, newParseError("unknown keyword", kw)
}
