package validate

import (
	"fmt"
	"strings"
	"unicode"

	"pinelint/internal/catalog"
)

// toSnakeCase implements the naming-convention algorithm resolved in
// SPEC_FULL.md §11: insert an underscore before every uppercase letter
// that is preceded by a lowercase letter or by another uppercase letter,
// then lowercase the whole string. This intentionally produces
// "h_t_t_p_u_r_l" for "HTTPURL" rather than a smarter acronym split.
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsUpper(prev) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// isLowerSnake accepts spec.md §4.4.7's `[a-z][a-z0-9]*(_[a-z0-9]+)*` /
// `[a-z]+` forms: a lowercase letter first, lowercase/digit/underscore after.
// It also accepts doubled or trailing underscores, which that pattern does not.
func isLowerSnake(s string) bool {
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLower(r) {
				return false
			}
			continue
		}
		if !unicode.IsLower(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// isAllCaps reports whether s is uppercase letters, digits, and
// underscores with at least one uppercase letter.
func isAllCaps(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// classifyName implements spec.md §4.4.7's naming-convention
// classification. flagged reports whether a diagnostic should be emitted;
// convention is the detected style label, suggestion the snake_case (or
// literal, for single-character names) replacement.
func classifyName(name string) (convention, suggestion string, flagged bool) {
	if len(name) == 1 {
		return "single_char", "name_value", true
	}
	if isLowerSnake(name) {
		return "", "", false
	}
	if isAllCaps(name) {
		return "ALL_CAPS", toSnakeCase(name), true
	}
	if unicode.IsUpper(rune(name[0])) {
		return "PascalCase", toSnakeCase(name), true
	}
	return "camelCase", toSnakeCase(name), true
}

// ValidateNamingConvention implements spec.md §4.4.7: a named call
// argument that is not already snake_case is flagged with its converted
// form as the suggested fix. Parameters already caught by the deprecated-
// alias rule are skipped to avoid double-reporting the same argument.
func ValidateNamingConvention(in Input) []catalog.Diagnostic {
	var diags []catalog.Diagnostic
	for _, call := range CollectCalls(in.Script) {
		entry, ok := catalogEntryFor(call)
		if !ok {
			continue
		}
		for _, a := range call.Args {
			if a.Name == "" {
				continue
			}
			if _, deprecated := entry.DeprecatedParamAliases[a.Name]; deprecated {
				continue
			}
			convention, suggestion, flagged := classifyName(a.Name)
			if !flagged {
				continue
			}
			rule := catalog.Rules[catalog.CodeInvalidNamingConvention]
			diags = append(diags, catalog.Diagnostic{
				Code: catalog.CodeInvalidNamingConvention, Severity: rule.DefaultSeverity, Category: rule.Category,
				Line: a.Span.Pos.Line, Column: a.Span.Pos.Column,
				Message:      fmt.Sprintf(rule.MessageTemplate, a.Name, convention),
				SuggestedFix: fmt.Sprintf(rule.SuggestedFixTemplate, suggestion),
				Metadata: map[string]any{
					"function_name":  entry.QualifiedName,
					"parameter_name": a.Name,
					"expected":       convention,
				},
			})
		}
	}
	return diags
}
