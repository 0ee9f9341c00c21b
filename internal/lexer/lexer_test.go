package lexer_test

import (
	"testing"

	"github.com/alii/al/internal/lexer"
	"github.com/alii/al/internal/token"
	"github.com/stretchr/testify/require"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	l := lexer.New(src)
	toks := l.Tokenize()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestTokenizeArithmeticExpression(t *testing.T) {
	require.Equal(t, []token.Kind{
		token.NUMBER_INT, token.PLUS, token.NUMBER_INT, token.STAR, token.NUMBER_INT, token.EOF,
	}, kinds(t, "1 + 2 * 3"))
}

func TestTokenizeKeywords(t *testing.T) {
	require.Equal(t, []token.Kind{
		token.FN, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.EOF,
	}, kinds(t, "fn f() {}"))
}

func TestTokenizeDistinguishesRangeFromSpread(t *testing.T) {
	require.Equal(t, []token.Kind{token.NUMBER_INT, token.DOTDOT, token.NUMBER_INT, token.EOF}, kinds(t, "1..5"))
	require.Equal(t, []token.Kind{token.DOTDOTDOT, token.IDENT, token.EOF}, kinds(t, "...rest"))
}

func TestTokenizeTwoCharOperatorsNotConfusedWithOneChar(t *testing.T) {
	require.Equal(t, []token.Kind{token.NOT_EQ, token.EOF}, kinds(t, "!="))
	require.Equal(t, []token.Kind{token.BANG, token.EOF}, kinds(t, "!"))
	require.Equal(t, []token.Kind{token.EQ, token.EOF}, kinds(t, "=="))
	require.Equal(t, []token.Kind{token.ASSIGN, token.EOF}, kinds(t, "="))
	require.Equal(t, []token.Kind{token.ARROW, token.EOF}, kinds(t, "->"))
}

func TestTokenizeStringLiteral(t *testing.T) {
	l := lexer.New(`'hello world'`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Kind)
	require.Equal(t, "hello world", tok.Literal)
}

func TestTokenizeInterpolatedStringMarksKind(t *testing.T) {
	l := lexer.New(`'hello $name'`)
	tok := l.NextToken()
	require.Equal(t, token.STRING_INTERP, tok.Kind)
}

func TestTokenizeStringEscapes(t *testing.T) {
	l := lexer.New(`'a\nb\t\'c\''`)
	tok := l.NextToken()
	require.Equal(t, token.STRING, tok.Kind)
	require.Equal(t, "a\nb\t'c'", tok.Literal)
}

func TestTokenizeFloatRequiresDigitAfterDot(t *testing.T) {
	require.Equal(t, []token.Kind{token.NUMBER_FLOAT, token.EOF}, kinds(t, "3.14"))
	// "3." followed by a non-digit is a range-start, not a float.
	require.Equal(t, []token.Kind{token.NUMBER_INT, token.DOTDOT, token.NUMBER_INT, token.EOF}, kinds(t, "3..4"))
}

func TestTokenizeUnterminatedStringReportsDiagnostic(t *testing.T) {
	l := lexer.New(`'unterminated`)
	l.NextToken()
	require.True(t, l.Diagnostics.HasErrors())
}

func TestTokenizeStrayCharacterReportsDiagnostic(t *testing.T) {
	l := lexer.New(`@`)
	l.NextToken()
	require.True(t, l.Diagnostics.HasErrors())
}

func TestTokenizeLineCommentAttachesAsTrivia(t *testing.T) {
	l := lexer.New("// a comment\n1")
	tok := l.NextToken()
	require.Equal(t, token.NUMBER_INT, tok.Kind)
	require.NotEmpty(t, tok.LeadingTrivia)

	var sawComment bool
	for _, tr := range tok.LeadingTrivia {
		if tr.Kind == token.TriviaLineComment {
			sawComment = true
			require.Equal(t, "// a comment", tr.Text)
		}
	}
	require.True(t, sawComment)
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	l := lexer.New("a\nb")
	first := l.NextToken()
	require.Equal(t, 1, first.Line)
	second := l.NextToken()
	require.Equal(t, 2, second.Line)
}
