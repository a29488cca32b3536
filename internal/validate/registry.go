package validate

// All lists every rule-family validator, fanned out independently by the
// review engine (spec.md §5).
var All = []Func{
	ValidateLength,
	ValidateRange,
	ValidateInputTypes,
	ValidateSimpleRequired,
	ValidateSignature,
	ValidateDeprecatedParams,
	ValidateNamingConvention,
	ValidateUdtHistorySyntax,
	ValidateLineContinuation,
}
