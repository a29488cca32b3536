package validate

import (
	"fmt"

	"pinelint/internal/catalog"
)

// levenshtein computes edit distance, used to suggest a corrected
// parameter name for UNKNOWN_FUNCTION_PARAMETER (spec.md §4.4.5).
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	la, lb := len(a), len(b)
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func closestParam(name string, candidates []string) (string, int) {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein(name, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// ValidateSignature implements spec.md §4.4.5: missing required
// parameters and named arguments the catalog does not recognize.
func ValidateSignature(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok {
			continue
		}
		supplied := map[string]bool{}
		pos := 0
		for _, a := range call.Args {
			if a.Name != "" {
				supplied[a.Name] = true
				continue
			}
			if pos < len(entry.PositionalNames) {
				supplied[entry.PositionalNames[pos]] = true
			}
			pos++
		}
		for _, req := range entry.RequiredParams {
			if supplied[req] {
				continue
			}
			rule := catalog.Rules[catalog.CodeFunctionSignatureValidation]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeFunctionSignatureValidation, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: call.Span.Pos.Line, Column: call.Span.Pos.Column,
				Message: fmt.Sprintf(rule.MessageTemplate, call.QualifiedName(), req),
				Metadata: map[string]any{
					"function_name":   entry.QualifiedName,
					"parameter_name":  req,
					"parameter_index": entry.ParamIndex(req),
				},
			})
		}

		known := entry.AllParamNames()
		knownSet := map[string]bool{}
		for _, n := range known {
			knownSet[n] = true
		}
		for _, a := range call.Args {
			if a.Name == "" || knownSet[a.Name] {
				continue
			}
			if _, deprecated := entry.DeprecatedParamAliases[a.Name]; deprecated {
				continue
			}
			rule := catalog.Rules[catalog.CodeUnknownFunctionParameter]
			suggestion, dist := closestParam(a.Name, known)
			msg := fmt.Sprintf(rule.MessageTemplate, call.QualifiedName(), a.Name)
			d := catalog.Diagnostic{
				Code: catalog.CodeUnknownFunctionParameter, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: a.Span.Pos.Line, Column: a.Span.Pos.Column,
				Message: msg,
				Metadata: map[string]any{
					"function_name":  entry.QualifiedName,
					"parameter_name": a.Name,
					"actual_value":   a.Name,
				},
			}
			if suggestion != "" && dist <= 2 {
				d.Metadata["suggested_parameter"] = suggestion
				d.SuggestedFix = fmt.Sprintf("did you mean %q?", suggestion)
			}
			diags = append(diags, d)
		}
	}
	return diags
}
