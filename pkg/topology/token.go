// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/LeeDigitalWorks/zapctl/pkg/types"
)

// TokenKind identifies the lexical class of a token
type TokenKind int

const (
	TokenKeyword TokenKind = iota + 1
	TokenNumber
	TokenAddress
)

func (k TokenKind) String() string {
	switch k {
	case TokenKeyword:
		return "keyword"
	case TokenNumber:
		return "number"
	case TokenAddress:
		return "address"
	default:
		return "unknown"
	}
}

// Keyword is one of the reserved words of the topology language
type Keyword string

const (
	KeywordReplica    Keyword = "replica"
	KeywordDisperse   Keyword = "disperse"
	KeywordRedundancy Keyword = "redundancy"
	KeywordStripe     Keyword = "stripe"
)

var keywords = []Keyword{KeywordReplica, KeywordDisperse, KeywordRedundancy, KeywordStripe}

// Token is one lexical element of a topology description
type Token struct {
	Kind    TokenKind
	Pos     int     // 0-based index in the raw input
	Raw     string  // Input string as given
	Keyword Keyword // Set for TokenKeyword
	Number  uint64  // Set for TokenNumber
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Raw)
}

// Tokenize classifies each raw string into a token. The result has the same
// length and order as the input.
func Tokenize(raw []string) ([]Token, error) {
	tokens := make([]Token, 0, len(raw))
	for pos, s := range raw {
		tok, err := lex(pos, s)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

func lex(pos int, s string) (Token, error) {
	for _, kw := range keywords {
		if strings.EqualFold(s, string(kw)) {
			return Token{Kind: TokenKeyword, Pos: pos, Raw: s, Keyword: kw}, nil
		}
	}

	// ParseUint rejects signs, so "-1" and "+1" fall through to the address check.
	// Digit strings past uint64 stay numbers; the parser rejects the count.
	n, err := strconv.ParseUint(s, 10, 64)
	if err == nil || errors.Is(err, strconv.ErrRange) {
		return Token{Kind: TokenNumber, Pos: pos, Raw: s, Number: n}, nil
	}

	if strings.Contains(s, types.AddressSeparator) {
		return Token{Kind: TokenAddress, Pos: pos, Raw: s}, nil
	}

	return Token{}, &LexError{Pos: pos, Raw: s}
}
