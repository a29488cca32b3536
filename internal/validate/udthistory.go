package validate

import (
	"fmt"

	"pinelint/internal/ast"
	"pinelint/internal/catalog"
)

// indexText recovers the literal source text of a history-access index
// expression (e.g. "1" in s[1]), falling back to "n" if the span is out
// of bounds.
func indexText(idx ast.Expr, source string) string {
	span := idx.SpanOf()
	start := int(span.Pos.Offset)
	end := start + int(span.Length)
	if start < 0 || end > len(source) || start > end {
		return "n"
	}
	return source[start:end]
}

// ValidateUdtHistorySyntax implements spec.md §4.4.8: `field[n]` history
// access directly on a UDT field is illegal; the object must be wrapped
// first, `(obj[n]).field`. Detected structurally as a HistoryAccess whose
// Target is a FieldAccess on a variable bound to a known UDT type.
func ValidateUdtHistorySyntax(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, h := range CollectHistoryAccesses(in.Script) {
		fa, ok := h.Target.(*ast.FieldAccess)
		if !ok {
			continue
		}
		obj, ok := fa.Object.(*ast.Identifier)
		if !ok {
			continue
		}
		udtName, bound := in.VarTypes[obj.Name]
		if !bound {
			continue
		}
		if _, known := in.Udts[udtName]; !known {
			continue
		}
		rule := catalog.Rules[catalog.CodeUdtHistorySyntaxError]
		suggestion := "(" + obj.Name + "[" + indexText(h.Index, in.Source) + "])." + fa.Field
		diags = append(diags, catalog.Diagnostic{
			Code: catalog.CodeUdtHistorySyntaxError, Severity: rule.DefaultSeverity, Category: rule.Category,
			Line: h.Span.Pos.Line, Column: h.Span.Pos.Column,
			Message:      rule.MessageTemplate,
			SuggestedFix: fmt.Sprintf(rule.SuggestedFixTemplate, suggestion),
			Metadata:     map[string]any{"actual_value": obj.Name + "." + fa.Field},
		})
	}
	return diags
}
