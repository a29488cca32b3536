package validate

import (
	"fmt"

	"pinelint/internal/catalog"
)

// ValidateDeprecatedParams implements spec.md §4.4.6: a named argument
// matching one of the catalog's deprecated aliases is flagged with the
// current name as the suggested fix.
func ValidateDeprecatedParams(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok || len(entry.DeprecatedParamAliases) == 0 {
			continue
		}
		for _, a := range call.Args {
			if a.Name == "" {
				continue
			}
			current, deprecated := entry.DeprecatedParamAliases[a.Name]
			if !deprecated {
				continue
			}
			rule := catalog.Rules[catalog.CodeDeprecatedParameterName]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeDeprecatedParameterName, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: a.Span.Pos.Line, Column: a.Span.Pos.Column,
				Message:      fmt.Sprintf(rule.MessageTemplate, a.Name),
				SuggestedFix: fmt.Sprintf(rule.SuggestedFixTemplate, current),
				Metadata: map[string]any{
					"function_name":       entry.QualifiedName,
					"parameter_name":      a.Name,
					"suggested_parameter": current,
				},
			})
		}
	}
	return diags
}
