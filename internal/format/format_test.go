package format

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceIndentsBraceBodies(t *testing.T) {
	in := "if ($x == 1) {\nprintf(\"hi\")\n}"
	out, err := Source(in)
	require.NoError(t, err)
	assert.Equal(t, "if ($x == 1) {\n    printf(\"hi\")\n}\n", out)
}

func TestSourceCascadeDedentsClosingBrace(t *testing.T) {
	in := "if ($x == 1) {\nprintf(\"a\")\n} elseif ($x == 2) {\nprintf(\"b\")\n} else {\nprintf(\"c\")\n}"
	out, err := Source(in)
	require.NoError(t, err)
	assert.Equal(t, "if ($x == 1) {\n    printf(\"a\")\n} elseif ($x == 2) {\n    printf(\"b\")\n} else {\n    printf(\"c\")\n}\n", out)
}

func TestSourceKeywordSpellingIsPreserved(t *testing.T) {
	out, err := Source("if (($a) AND ($b)) {}")
	require.NoError(t, err)
	assert.Contains(t, out, "if")
	assert.Contains(t, out, "AND")
}

func TestSourceOperatorAndCommaSpacing(t *testing.T) {
	out, err := Source("$x=1+2\nprintf($x,$x)")
	require.NoError(t, err)
	assert.Equal(t, "$x = 1 + 2\nprintf($x, $x)\n", out)
}

func TestSourceNoSpaceInsideParensOrBrackets(t *testing.T) {
	out, err := Source("$a = [ 1 , 2 ]\nprintf( $a[ 0 ] )")
	require.NoError(t, err)
	assert.Equal(t, "$a = [1, 2]\nprintf($a[0])\n", out)
}

func TestSourceUnaryMinusAndBangNoSpace(t *testing.T) {
	out, err := Source("$x = -5\n$y = !$flag")
	require.NoError(t, err)
	assert.Equal(t, "$x = -5\n$y = !$flag\n", out)
}

func TestSourceCollapsesMultipleBlankLines(t *testing.T) {
	out, err := Source("$x = 1\n\n\n\n$y = 2")
	require.NoError(t, err)
	assert.Equal(t, "$x = 1\n\n$y = 2\n", out)
}

func TestSourcePreservesTrailingComment(t *testing.T) {
	out, err := Source("$x = 1 # note")
	require.NoError(t, err)
	assert.Equal(t, "$x = 1 # note\n", out)
}

func TestSourceRequotesStringLiterals(t *testing.T) {
	out, err := Source(`$x = "line\nbreak"`)
	require.NoError(t, err)
	assert.Equal(t, `$x = "line\nbreak"`+"\n", out)
}

func TestSourceReturnsParseErrorOnUnterminatedString(t *testing.T) {
	_, err := Source(`$x = "unterminated`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestSourceIdempotentAfterOnePass(t *testing.T) {
	in := "if ($x==1){\nprintf(\"a\" ,$x)\n}else{\n  printf(\"b\")\n}\n\n\n$y=[1,2,3]"
	once, err := Source(in)
	require.NoError(t, err)
	twice, err := Source(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestSourceSnapshotFizzBuzz(t *testing.T) {
	in := `$i=1
while($i<=5){
if(($i%15)==0){
printf("FizzBuzz")
}elseif(($i%3)==0){
printf("Fizz")
}elseif(($i%5)==0){
printf("Buzz")
}else{
printf($i)
}
inc $i+1
}`
	out, err := Source(in)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "fizzbuzz_formatted", out)
}

func TestSourceSnapshotArrayAndFunc(t *testing.T) {
	in := `func greet {
$name="World"
printf("Hello $name")
}
$a=[1,2,3]
push $a,4
unshift $a,0
pop $a
shift $a
greet`
	out, err := Source(in)
	require.NoError(t, err)
	snaps.MatchSnapshot(t, "array_and_func_formatted", out)
}
