package validate

import (
	"fmt"

	"pinelint/internal/catalog"
)

// paramCode maps a range-constrained parameter name to the specific
// closed diagnostic code spec.md §4.4.2/§4.4.10 assigns it. Parameters
// not listed here fall back to the generic PARAMETER_RANGE_VALIDATION
// code.
var paramCode = map[string]catalog.Code{
	"precision":          catalog.CodeInvalidPrecision,
	"max_bars_back":      catalog.CodeInvalidMaxBarsBack,
	"max_lines_count":    catalog.CodeInvalidMaxLinesCount,
	"max_boxes_count":    catalog.CodeInvalidMaxBoxesCount,
	"max_labels_count":   catalog.CodeInvalidMaxLabelsCount,
	"max_polylines_count": catalog.CodeInvalidMaxPolylinesCount,
}

// ValidateRange implements spec.md §4.4.2 (parameter range validation) and
// §4.4.10 (drawing-object count limits, batched here since both are plain
// numeric-range checks against the catalog's RangeConstraints table).
func ValidateRange(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok || len(entry.RangeConstraints) == 0 {
			continue
		}
		for param, rc := range entry.RangeConstraints {
			arg, found := findArg(call, entry, param)
			if !found {
				continue
			}
			val, isInt, isNum := literalNumber(arg.Value)
			if !isNum {
				continue
			}
			violates := val < rc.Min || val > rc.Max || (rc.Integer && !isInt)
			if !violates {
				continue
			}
			code := rc.Code
			if code == "" {
				code = paramCode[param]
			}
			if code == "" {
				code = catalog.CodeParameterRangeValidation
			}
			rule := catalog.Rules[code]
			var msg string
			if code == catalog.CodeParameterRangeValidation {
				msg = fmt.Sprintf(rule.MessageTemplate, param, val, rc.Min, rc.Max)
			} else {
				msg = fmt.Sprintf(rule.MessageTemplate, val, rc.Min, rc.Max)
			}
			var actual any = val
			if isInt {
				actual = int(val)
			}
			diags = append(diags, catalog.Diagnostic{
				Code: code, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: arg.Span.Pos.Line, Column: arg.Span.Pos.Column,
				Message: msg,
				Metadata: map[string]any{
					"function_name":  entry.QualifiedName,
					"parameter_name": param,
					"actual_value":   actual,
					"min":            rc.Min,
					"max":            rc.Max,
				},
			})
		}
	}
	return diags
}
