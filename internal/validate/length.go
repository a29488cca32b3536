package validate

import (
	"fmt"

	"pinelint/internal/catalog"
)

// ValidateLength implements spec.md §4.4.1: length constraints on string
// parameters (shorttitle's 10-character cap on indicator/strategy).
func ValidateLength(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok || len(entry.LengthConstraints) == 0 {
			continue
		}
		for param, constraint := range entry.LengthConstraints {
			arg, found := findArg(call, entry, param)
			if !found {
				continue
			}
			s, isStr := literalString(arg.Value)
			if !isStr {
				continue
			}
			if len(s) <= constraint.MaxLength {
				continue
			}
			rule := catalog.Rules[catalog.CodeShortTitleTooLong]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeShortTitleTooLong, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: arg.Span.Pos.Line, Column: arg.Span.Pos.Column,
				Message:      fmt.Sprintf(rule.MessageTemplate, s, len(s), constraint.MaxLength),
				SuggestedFix: fmt.Sprintf(rule.SuggestedFixTemplate, constraint.MaxLength),
				Metadata: map[string]any{
					"function_name":  entry.QualifiedName,
					"parameter_name": param,
					"actual_value":   s,
					"length":         len(s),
					"max_length":     constraint.MaxLength,
				},
			})
		}
	}
	return diags
}
