package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huffgo/huffc/internal/lexer"
)

func tokenTypes(tokens []lexer.Token) []lexer.TokenType {
	types := make([]lexer.TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func TestTokenizePunctuationAndIdents(t *testing.T) {
	tokens := lexer.New("#define macro MAIN() = takes(0) returns(0) { STOP }").Tokenize()
	require.NotEmpty(t, tokens)
	assert.Equal(t, lexer.EOF, tokens[len(tokens)-1].Type)

	assert.Equal(t, lexer.HASH, tokens[0].Type)
	assert.Equal(t, lexer.IDENT, tokens[1].Type)
	assert.Equal(t, "define", tokens[1].Literal)
}

func TestTokenizeHexAndDecimalNumbers(t *testing.T) {
	tokens := lexer.New("0x2a 42").Tokenize()
	require.GreaterOrEqual(t, len(tokens), 3)
	assert.Equal(t, lexer.NUMBER, tokens[0].Type)
	assert.Equal(t, "0x2a", tokens[0].Literal)
	assert.Equal(t, lexer.NUMBER, tokens[1].Type)
	assert.Equal(t, "42", tokens[1].Literal)
}

func TestTokenizeSkipsCommentsAndWhitespace(t *testing.T) {
	src := "// a comment\nADD // trailing\nSUB"
	tokens := lexer.New(src).Tokenize()
	var idents []string
	for _, tok := range tokens {
		if tok.Type == lexer.IDENT {
			idents = append(idents, tok.Literal)
		}
	}
	assert.Equal(t, []string{"ADD", "SUB"}, idents)
}

func TestTokenizeBracketsAndAngles(t *testing.T) {
	tokens := lexer.New("[OWNER] <amount>").Tokenize()
	assert.Equal(t, []lexer.TokenType{
		lexer.LBRACKET, lexer.IDENT, lexer.RBRACKET,
		lexer.LANGLE, lexer.IDENT, lexer.RANGLE,
		lexer.EOF,
	}, tokenTypes(tokens))
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	tokens := lexer.New("@").Tokenize()
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.ILLEGAL, tokens[0].Type)
}
