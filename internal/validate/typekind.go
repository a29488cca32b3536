package validate

import (
	"fmt"

	"pinelint/internal/ast"
	"pinelint/internal/catalog"
)

// inferKind infers the TypeKind of an expression using only the
// structural information available post-parse (spec.md §4.4.3; this is
// deliberately not a full type system, per §1 Non-goals).
func inferKind(e ast.Expr, in Input) catalog.TypeKind {
	switch n := e.(type) {
	case *ast.Literal:
		switch n.Kind {
		case ast.LitInt:
			return catalog.KindInt
		case ast.LitFloat:
			return catalog.KindFloat
		case ast.LitBool:
			return catalog.KindBool
		case ast.LitString:
			return catalog.KindString
		case ast.LitNa:
			return catalog.KindNa
		}
	case *ast.Identifier:
		if seriesBuiltins[n.Name] {
			return catalog.KindSeriesFloat
		}
	case *ast.FunctionCall:
		if entry, ok := catalogEntryFor(n); ok {
			return entry.ReturnKind
		}
	case *ast.FieldAccess:
		if isSeriesExpr(n, in) {
			return catalog.KindSeriesFloat
		}
	case *ast.HistoryAccess:
		return catalog.KindSeriesFloat
	}
	return catalog.KindUnknown
}

// ValidateInputTypes implements spec.md §4.4.3: an argument whose
// inferred kind is known and not assignable to the catalog's expected kind
// for that position is a type mismatch; arguments of unknown kind are
// skipped.
func ValidateInputTypes(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok || len(entry.ExpectedKinds) == 0 {
			continue
		}
		pos := 0
		for _, a := range call.Args {
			idx := entry.ParamIndex(a.Name)
			if a.Name == "" {
				idx = pos
				pos++
			}
			if idx < 0 || idx >= len(entry.ExpectedKinds) {
				continue
			}
			expected := entry.ExpectedKinds[idx]
			got := inferKind(a.Value, in)
			if got == catalog.KindUnknown || catalog.Assignable(got, expected) {
				continue
			}
			paramName := a.Name
			if paramName == "" && idx < len(entry.PositionalNames) {
				paramName = entry.PositionalNames[idx]
			}
			rule := catalog.Rules[catalog.CodeInputTypeMismatch]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeInputTypeMismatch, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: a.Span.Pos.Line, Column: a.Span.Pos.Column,
				Message: fmt.Sprintf(rule.MessageTemplate, paramName, expected, got),
				Metadata: map[string]any{
					"function_name":   entry.QualifiedName,
					"parameter_name":  paramName,
					"parameter_index": idx,
					"expected":        string(expected),
					"actual_value":    string(got),
				},
			})
		}
	}
	return diags
}
