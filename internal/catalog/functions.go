package catalog

// TypeKind is the closed set of kinds the type-inference rules reason
// about. There is no general type system here; only what the rule catalog
// needs (spec.md §1 Non-goals).
type TypeKind string

const (
	KindInt          TypeKind = "int"
	KindFloat        TypeKind = "float"
	KindBool         TypeKind = "bool"
	KindString       TypeKind = "string"
	KindColor        TypeKind = "color"
	KindSeriesInt    TypeKind = "series_int"
	KindSeriesFloat  TypeKind = "series_float"
	KindSeriesBool   TypeKind = "series_bool"
	KindSeriesString TypeKind = "series_string"
	KindNa           TypeKind = "na"
	KindUnknown      TypeKind = "unknown"
)

// IsSeries reports whether a kind is one of the series_* variants.
func (k TypeKind) IsSeries() bool {
	switch k {
	case KindSeriesInt, KindSeriesFloat, KindSeriesBool, KindSeriesString:
		return true
	}
	return false
}

// SeriesOf lifts a non-series kind to its series form. Kinds with no
// series form (color, na, unknown) lift to themselves.
func (k TypeKind) SeriesOf() TypeKind {
	switch k {
	case KindInt:
		return KindSeriesInt
	case KindFloat:
		return KindSeriesFloat
	case KindBool:
		return KindSeriesBool
	case KindString:
		return KindSeriesString
	default:
		return k
	}
}

// Assignable reports whether a value of kind `from` may be passed where
// kind `to` is expected, per spec.md §4.4.3.
func Assignable(from, to TypeKind) bool {
	if from == to {
		return true
	}
	if from == KindUnknown || to == KindUnknown {
		return true
	}
	if from == KindNa {
		return true
	}
	if from == KindInt && to == KindFloat {
		return true
	}
	if from == KindInt && to == KindSeriesInt {
		return true
	}
	if from == KindFloat && to == KindSeriesFloat {
		return true
	}
	if !from.IsSeries() && to == from.SeriesOf() {
		return true
	}
	return false
}

// RangeConstraint bounds a numeric parameter's literal value.
type RangeConstraint struct {
	Min     float64
	Max     float64
	Integer bool
	// Code overrides the emitted diagnostic code; empty uses the generic
	// CodeParameterRangeValidation.
	Code Code
}

// LengthConstraint bounds a string parameter's literal length.
type LengthConstraint struct {
	MaxLength int
}

// FunctionEntry is the constraint bundle for one guarded function.
type FunctionEntry struct {
	QualifiedName  string
	PositionalNames []string
	ExpectedKinds   []TypeKind
	// RequiredParams lists parameter names (positional or named) a valid
	// call must supply.
	RequiredParams []string
	// SimpleRequiredPositions are zero-based argument positions that must
	// resolve to a simple (non-series) expression.
	SimpleRequiredPositions []int
	RangeConstraints        map[string]RangeConstraint
	LengthConstraints       map[string]LengthConstraint
	DeprecatedParamAliases  map[string]string
	// ReturnKind is looked up when this call appears as a nested
	// expression; KindUnknown when the catalog has no opinion.
	ReturnKind TypeKind
}

// ParamIndex returns the zero-based positional index of name within the
// function's positional parameter list, or -1 if name is not positional.
func (f FunctionEntry) ParamIndex(name string) int {
	for i, n := range f.PositionalNames {
		if n == name {
			return i
		}
	}
	return -1
}

// AllParamNames returns every parameter name the function recognizes,
// positional names plus any name mentioned only in a constraint map.
func (f FunctionEntry) AllParamNames() []string {
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, n := range f.PositionalNames {
		add(n)
	}
	for n := range f.RangeConstraints {
		add(n)
	}
	for n := range f.LengthConstraints {
		add(n)
	}
	for n := range f.DeprecatedParamAliases {
		add(n)
	}
	return names
}

// Functions is the compiled-in guarded-function table, keyed by qualified
// name ("indicator", "ta.macd", ...). Per spec.md §9 Open Questions, it is
// seeded from the built-ins spec.md itself names in its worked examples;
// functions absent from this table never produce INPUT_TYPE_MISMATCH or
// any other catalog diagnostic — the catalog is permissive by omission.
var Functions map[string]FunctionEntry

func init() {
	drawingCounts := map[string]RangeConstraint{
		"precision":      {Min: 0, Max: 8, Integer: true, Code: CodeInvalidPrecision},
		"max_bars_back":  {Min: 1, Max: 5000, Integer: true, Code: CodeInvalidMaxBarsBack},
		"max_lines_count":     {Min: 1, Max: 500, Integer: true, Code: CodeInvalidMaxLinesCount},
		"max_boxes_count":     {Min: 1, Max: 500, Integer: true, Code: CodeInvalidMaxBoxesCount},
		"max_labels_count":    {Min: 1, Max: 500, Integer: true, Code: CodeInvalidMaxLabelsCount},
		"max_polylines_count": {Min: 1, Max: 500, Integer: true, Code: CodeInvalidMaxPolylinesCount},
	}

	Functions = map[string]FunctionEntry{
		"indicator": {
			QualifiedName: "indicator",
			PositionalNames: []string{
				"title", "shorttitle", "overlay", "format", "precision", "scale",
				"max_bars_back", "max_lines_count", "max_labels_count", "max_boxes_count",
				"max_polylines_count",
			},
			RequiredParams:    []string{"title"},
			RangeConstraints:  drawingCounts,
			LengthConstraints: map[string]LengthConstraint{"shorttitle": {MaxLength: 10}},
		},
		"strategy": {
			QualifiedName: "strategy",
			PositionalNames: []string{
				"title", "shorttitle", "overlay", "format", "precision", "scale",
				"pyramiding", "calc_on_order_fills", "calc_on_every_tick", "max_bars_back",
				"max_lines_count", "max_labels_count", "max_boxes_count", "max_polylines_count",
			},
			RequiredParams:    []string{"title"},
			RangeConstraints:  drawingCounts,
			LengthConstraints: map[string]LengthConstraint{"shorttitle": {MaxLength: 10}},
		},
		"ta.macd": {
			QualifiedName:           "ta.macd",
			PositionalNames:         []string{"source", "fast_length", "slow_length", "signal_length"},
			ExpectedKinds:           []TypeKind{KindSeriesFloat, KindInt, KindInt, KindInt},
			RequiredParams:          []string{"source", "fast_length", "slow_length", "signal_length"},
			SimpleRequiredPositions: []int{1, 2, 3},
			ReturnKind:              KindUnknown,
		},
		"table.cell": {
			QualifiedName:   "table.cell",
			PositionalNames: []string{"table_id", "column", "row", "text", "width", "height", "text_color", "text_halign", "text_valign", "text_size", "bgcolor"},
			RequiredParams:  []string{"table_id", "column", "row"},
			DeprecatedParamAliases: map[string]string{
				"textColor":  "text_color",
				"textHAlign": "text_halign",
				"textVAlign": "text_valign",
				"textSize":   "text_size",
			},
		},
	}
}
