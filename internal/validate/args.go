package validate

import (
	"strconv"

	"pinelint/internal/ast"
	"pinelint/internal/catalog"
)

// findArg locates an argument by formal parameter name, checking both a
// matching named argument and, failing that, the positional slot the
// catalog entry assigns to that name.
func findArg(call *ast.FunctionCall, entry catalog.FunctionEntry, paramName string) (ast.Arg, bool) {
	for _, a := range call.Args {
		if a.Name == paramName {
			return a, true
		}
	}
	idx := entry.ParamIndex(paramName)
	if idx < 0 {
		return ast.Arg{}, false
	}
	pos := uint16(0)
	for _, a := range call.Args {
		if a.Name != "" {
			continue
		}
		if int(pos) == idx {
			return a, true
		}
		pos++
	}
	return ast.Arg{}, false
}

// literalNumber reports the numeric value of a Literal expression and
// whether it was written as an integer literal.
func literalNumber(e ast.Expr) (value float64, isInt bool, ok bool) {
	lit, is := e.(*ast.Literal)
	if !is {
		return 0, false, false
	}
	switch lit.Kind {
	case ast.LitInt:
		n, err := strconv.ParseInt(lit.Raw, 10, 64)
		if err != nil {
			return 0, false, false
		}
		return float64(n), true, true
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Raw, 64)
		if err != nil {
			return 0, false, false
		}
		return f, false, true
	}
	return 0, false, false
}

// literalString reports a Literal string's unquoted contents.
func literalString(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.Literal)
	if !ok || lit.Kind != ast.LitString {
		return "", false
	}
	s := lit.Raw
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}
	return s, true
}

// catalogEntryFor looks up the guarded function catalog entry for a call,
// returning ok=false for any call the catalog does not name (such calls
// are permissive by construction, per spec.md §9 Open Questions).
func catalogEntryFor(call *ast.FunctionCall) (catalog.FunctionEntry, bool) {
	entry, ok := catalog.Functions[call.QualifiedName()]
	return entry, ok
}
