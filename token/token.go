// Package token defines the lexical token kinds shared by the lexer and
// parser.
package token

// Pos is a 1-based byte offset into the source a node or token came from.
type Pos int

// Position is the decoded line/column form of a Pos, resolved against a
// particular source file's line table.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // line number, 1-based
	Column int // column number, 1-based
}

// Kind is the tag of a lexical token, corresponding to the variants of the
// Token type in the data model: operators, punctuation and reserved words
// are represented directly by a Kind; words, quoted strings, variable
// references, substitutions, globs, heredocs and assignments carry a Kind
// plus payload and are assembled into syntax.WordNode values by the lexer
// as it scans, since their internal structure (nested quotes, balanced
// parens, captured heredoc bodies) can only be known during the scan.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// word-class tokens: these always carry payload and are turned into
	// syntax.WordNode values directly by the lexer.
	WORD         // unquoted literal run
	SINGLEQUOTED // 'literal'
	DOUBLEQUOTED // "..."
	VARIABLE     // $NAME or ${NAME}
	SUBSTITUTION // $(...)
	ARITHMETIC   // $((...))
	GLOB         // unquoted run containing *, ? or [...]
	HEREDOC      // <<DELIM / <<-DELIM, body already captured
	ASSIGNMENT   // NAME=VALUE at the head of a simple command

	// punctuation / operators
	PIPE      // |
	AND       // &&
	OR        // ||
	SEMICOLON // ;
	NEWLINE
	BANG // !

	LPAREN // (
	RPAREN // )
	LBRACE // {
	RBRACE // }

	// redirection operators
	REDIR_IN       // <
	REDIR_OUT      // >
	REDIR_APPEND   // >>
	REDIR_ERR      // 2>
	REDIR_ERRAPP   // 2>>
	REDIR_ALL      // &>
	REDIR_ALLAPP   // &>>
	REDIR_DUP_ERR  // 2>&1
	REDIR_DUP_OUT  // 1>&2
	HEREDOC_OP     // <<
	HEREDOC_STRIP  // <<-

	// reserved words
	IF
	THEN
	ELIF
	ELSE
	FI
	FOR
	IN
	DO
	DONE
	WHILE
	UNTIL
	CASE
	ESAC
	BREAK
	CONTINUE
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	WORD: "word", SINGLEQUOTED: "'...'", DOUBLEQUOTED: `"..."`,
	VARIABLE: "$var", SUBSTITUTION: "$(...)", ARITHMETIC: "$((...))",
	GLOB: "glob", HEREDOC: "heredoc", ASSIGNMENT: "assignment",
	PIPE: "|", AND: "&&", OR: "||", SEMICOLON: ";", NEWLINE: "\\n", BANG: "!",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	REDIR_IN: "<", REDIR_OUT: ">", REDIR_APPEND: ">>",
	REDIR_ERR: "2>", REDIR_ERRAPP: "2>>", REDIR_ALL: "&>", REDIR_ALLAPP: "&>>",
	REDIR_DUP_ERR: "2>&1", REDIR_DUP_OUT: "1>&2",
	HEREDOC_OP: "<<", HEREDOC_STRIP: "<<-",
	IF: "if", THEN: "then", ELIF: "elif", ELSE: "else", FI: "fi",
	FOR: "for", IN: "in", DO: "do", DONE: "done",
	WHILE: "while", UNTIL: "until", CASE: "case", ESAC: "esac",
	BREAK: "break", CONTINUE: "continue",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps the reserved-word spelling to its Kind. Recognized only
// in command position by the parser, never inside words.
var Keywords = map[string]Kind{
	"if": IF, "then": THEN, "elif": ELIF, "else": ELSE, "fi": FI,
	"for": FOR, "in": IN, "do": DO, "done": DONE,
	"while": WHILE, "until": UNTIL, "case": CASE, "esac": ESAC,
	"break": BREAK, "continue": CONTINUE,
}

// RedirectMode names the operator of a Redirect node.
type RedirectMode int

const (
	RedirIn      RedirectMode = iota // <
	RedirOut                         // >
	RedirAppend                      // >>
	RedirErr                         // 2>
	RedirErrApp                      // 2>>
	RedirAll                         // &>
	RedirAllApp                      // &>>
	RedirDupErr                      // 2>&1
	RedirDupOut                      // 1>&2
	RedirHeredoc                     // <<, <<-
)

func (m RedirectMode) String() string {
	switch m {
	case RedirIn:
		return "<"
	case RedirOut:
		return ">"
	case RedirAppend:
		return ">>"
	case RedirErr:
		return "2>"
	case RedirErrApp:
		return "2>>"
	case RedirAll:
		return "&>"
	case RedirAllApp:
		return "&>>"
	case RedirDupErr:
		return "2>&1"
	case RedirDupOut:
		return "1>&2"
	case RedirHeredoc:
		return "<<"
	}
	return "?"
}
