package validate

import (
	"fmt"

	"pinelint/internal/ast"
	"pinelint/internal/catalog"
)

// seriesBuiltins are identifiers pinelint treats as series-kind without
// any declaration in source (OHLCV and similar built-in series).
var seriesBuiltins = map[string]bool{
	"close": true, "open": true, "high": true, "low": true, "volume": true,
	"hl2": true, "hlc3": true, "ohlc4": true, "time": true,
}

// isSeriesExpr reports whether an expression structurally denotes a
// series value: a known series built-in, a field access on a UDT field
// declared without the `simple` qualifier, or a history access (history
// access is only legal over a series in practice).
func isSeriesExpr(e ast.Expr, in Input) bool {
	switch n := e.(type) {
	case *ast.Identifier:
		return seriesBuiltins[n.Name]
	case *ast.HistoryAccess:
		return true
	case *ast.FieldAccess:
		obj, ok := n.Object.(*ast.Identifier)
		if !ok {
			return false
		}
		udtName, bound := in.VarTypes[obj.Name]
		if !bound {
			return false
		}
		decl, ok := in.Udts[udtName]
		if !ok {
			return false
		}
		field, ok := decl.FieldByName(n.Field)
		if !ok {
			return false
		}
		return !field.IsSimpleQualified
	case *ast.FunctionCall:
		entry, ok := catalogEntryFor(n)
		return ok && entry.ReturnKind.IsSeries()
	}
	return false
}

// ValidateSimpleRequired implements spec.md §4.4.4: arguments at positions
// the catalog marks SimpleRequiredPositions must not resolve to a series
// expression.
func ValidateSimpleRequired(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok || len(entry.SimpleRequiredPositions) == 0 {
			continue
		}
		required := map[int]bool{}
		for _, p := range entry.SimpleRequiredPositions {
			required[p] = true
		}
		pos := 0
		for _, a := range call.Args {
			idx := int(a.Position)
			if a.Name != "" {
				idx = entry.ParamIndex(a.Name)
			} else {
				idx = pos
				pos++
			}
			if idx < 0 || !required[idx] {
				continue
			}
			if !isSeriesExpr(a.Value, in) {
				continue
			}
			paramName := a.Name
			if paramName == "" && idx < len(entry.PositionalNames) {
				paramName = entry.PositionalNames[idx]
			}
			rule := catalog.Rules[catalog.CodeSeriesWhereSimpleExpected]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeSeriesWhereSimpleExpected, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: a.Span.Pos.Line, Column: a.Span.Pos.Column,
				Message: fmt.Sprintf(rule.MessageTemplate, paramName),
				Metadata: map[string]any{
					"function_name":   entry.QualifiedName,
					"parameter_name":  paramName,
					"parameter_index": idx,
					"expected":        "simple",
				},
			})
		}
	}
	return diags
}
