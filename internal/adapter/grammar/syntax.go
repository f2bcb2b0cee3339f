package grammar

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// cfgLexer tokenizes grammar files written as
//
//	%start S
//	S -> NP VP | VP    # comment
//	Det -> 'the' | "a"
var cfgLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `\r?\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Directive", Pattern: `%start`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "String", Pattern: `"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'`},
	{Name: "Ident", Pattern: `[A-Za-z_$](?:[A-Za-z0-9_$^.+:]|-[A-Za-z0-9_$^.+:])*`},
})

type cfgFile struct {
	Entries []*cfgEntry `parser:"EOL* @@*"`
}

type cfgEntry struct {
	Start *string  `parser:"  Directive @Ident EOL+"`
	Rule  *cfgRule `parser:"| @@"`
}

type cfgRule struct {
	Pos lexer.Position

	LHS          string            `parser:"@Ident Arrow"`
	Alternatives []*cfgAlternative `parser:"@@ ( Pipe @@ )* EOL+"`
}

type cfgAlternative struct {
	Symbols []*cfgSymbol `parser:"@@+"`
}

type cfgSymbol struct {
	Terminal    *string `parser:"  @String"`
	Nonterminal *string `parser:"| @Ident"`
}

var cfgParser = participle.MustBuild[cfgFile](
	participle.Lexer(cfgLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace", "Comment"),
)
