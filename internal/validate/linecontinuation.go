package validate

import (
	"pinelint/internal/catalog"
	"pinelint/internal/token"
)

// ValidateLineContinuation implements spec.md §4.4.9. The lexer tags a
// Newline as LineContinuation whenever the preceding significant token
// requires a right operand; this validator adds the bracket-depth
// judgment the lexer deliberately defers: a candidate continuation is
// only legal when it falls inside an open `(` or `[`. A candidate at
// bracket depth zero is an unbracketed break after an operator expecting
// more input - illegal except where depth-zero continuations are always
// fine (binary operators at statement end are accepted by the grammar
// that follows; only the ternary `?`/`:` forms are restricted per
// spec.md §4.4.9's worked example).
func ValidateLineContinuation(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	depth := 0
	var lastSig token.Token
	haveLast := false
	for _, t := range in.Tokens {
		switch t.Kind {
		case token.Punctuation:
			switch t.Value {
			case "(", "[":
				depth++
			case ")", "]":
				if depth > 0 {
					depth--
				}
			}
		case token.LineContinuation:
			if depth == 0 && haveLast && (lastSig.IsOperator("?") || lastSig.IsOperator(":")) {
				rule := catalog.Rules[catalog.CodeInvalidLineContinuation]
				diags = append(diags, catalog.Diagnostic{
					Code: catalog.CodeInvalidLineContinuation, Severity: rule.DefaultSeverity, Category: rule.Category,
					Line: lastSig.Span.Pos.Line, Column: lastSig.Span.Pos.Column,
					Message: rule.MessageTemplate,
				})
			}
		}
		if t.Kind != token.Newline && t.Kind != token.LineContinuation && t.Kind != token.Comment {
			lastSig = t
			haveLast = true
		}
	}
	return diags
}
