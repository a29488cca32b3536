package validate

import (
	"testing"

	"pinelint/internal/ast"
	"pinelint/internal/lexer"
)

func build(t *testing.T, src string) Input {
	t.Helper()
	lr := lexer.Lex(src)
	r := ast.Parse(lr.Tokens, src, lr.VersionComment)
	return Input{Script: r.Script, Tokens: lr.Tokens, Udts: r.Udts, VarTypes: r.VarTypes, Source: src}
}

func TestShortTitleTooLong(t *testing.T) {
	in := build(t, `strategy("EMA Ribbon MACD v1.1", "RIBBON_v1.1", overlay = false)`)
	diags := ValidateLength(in)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(diags), diags)
	}
	if string(diags[0].Code) != "SHORT_TITLE_TOO_LONG" {
		t.Errorf("got code %s", diags[0].Code)
	}
	md := diags[0].Metadata
	if md["actual_value"] != "RIBBON_v1.1" || md["length"] != 11 || md["max_length"] != 10 ||
		md["function_name"] != "strategy" || md["parameter_name"] != "shorttitle" {
		t.Errorf("got metadata %+v", md)
	}
}

func TestNegativePrecisionOutOfRange(t *testing.T) {
	in := build(t, `indicator("Test", precision=-1)`)
	diags := ValidateRange(in)
	if len(diags) != 1 || string(diags[0].Code) != "INVALID_PRECISION" {
		t.Fatalf("got %+v", diags)
	}
	md := diags[0].Metadata
	if md["actual_value"] != -1 || md["min"] != 0.0 || md["max"] != 8.0 {
		t.Errorf("got metadata %+v", md)
	}
}

func TestPrecisionInRange(t *testing.T) {
	in := build(t, `indicator("Test", precision=4)`)
	diags := ValidateRange(in)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestMacdSimpleRequiredFlagsSeriesArg(t *testing.T) {
	src := "type MarketSettings\n    float adaptiveFast\n\n" +
		"var MarketSettings market = MarketSettings.new()\n" +
		"[m, s, h] = ta.macd(close, market.adaptiveFast, 26, 9)\n"
	in := build(t, src)
	diags := ValidateSimpleRequired(in)
	if len(diags) != 1 || string(diags[0].Code) != "SERIES_TYPE_WHERE_SIMPLE_EXPECTED" {
		t.Fatalf("got %+v", diags)
	}
}

func TestMacdAllSimpleArgsOk(t *testing.T) {
	in := build(t, `[m, s, h] = ta.macd(close, 12, 26, 9)`)
	diags := ValidateSimpleRequired(in)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestDeprecatedTableCellParam(t *testing.T) {
	in := build(t, `table.cell(t, 0, 0, "x", textColor=color.red)`)
	diags := ValidateDeprecatedParams(in)
	if len(diags) != 1 || string(diags[0].Code) != "DEPRECATED_PARAMETER_NAME" {
		t.Fatalf("got %+v", diags)
	}
	if diags[0].SuggestedFix != "use \"text_color\" instead" {
		t.Errorf("got suggested fix %q", diags[0].SuggestedFix)
	}
}

func TestUnknownFunctionParameterSuggestsClosest(t *testing.T) {
	in := build(t, `indicator("Test", titel="x")`)
	diags := ValidateSignature(in)
	var found bool
	for _, d := range diags {
		if string(d.Code) == "UNKNOWN_FUNCTION_PARAMETER" {
			found = true
			if d.Metadata["suggested_parameter"] != "title" {
				t.Errorf("got suggestion %v", d.Metadata["suggested_parameter"])
			}
		}
	}
	if !found {
		t.Fatal("expected UNKNOWN_FUNCTION_PARAMETER diagnostic")
	}
}

func TestMissingRequiredParam(t *testing.T) {
	in := build(t, `ta.macd(close, 12, 26)`)
	diags := ValidateSignature(in)
	if len(diags) != 1 || string(diags[0].Code) != "FUNCTION_SIGNATURE_VALIDATION" {
		t.Fatalf("got %+v", diags)
	}
}

func TestNamingConventionAcceptsSnakeCase(t *testing.T) {
	in := build(t, `table.cell(t, 0, 0, "x", text_halign="left")`)
	diags := ValidateNamingConvention(in)
	if len(diags) != 0 {
		t.Fatalf("snake_case name should not be flagged: %+v", diags)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"textHAlign": "text_h_align",
		"HTTPURL":    "h_t_t_p_u_r_l",
		"already_ok": "already_ok",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNamingConventionDetectsCamelCase(t *testing.T) {
	in := build(t, `table.cell(t, 0, 0, "x", textHalign="left")`)
	diags := ValidateNamingConvention(in)
	if len(diags) != 1 {
		t.Fatalf("got %+v", diags)
	}
	if diags[0].Metadata["expected"] != "camelCase" {
		t.Errorf("got detected convention %v", diags[0].Metadata["expected"])
	}
}

func TestNamingConventionDetectsAllCaps(t *testing.T) {
	in := build(t, `indicator("Test", SHORTTITLE="x")`)
	diags := ValidateNamingConvention(in)
	if len(diags) != 1 || diags[0].Metadata["expected"] != "ALL_CAPS" {
		t.Fatalf("got %+v", diags)
	}
}

func TestNamingConventionFlagsSingleCharIdentifier(t *testing.T) {
	in := build(t, `indicator("Test", x="y")`)
	diags := ValidateNamingConvention(in)
	if len(diags) != 1 {
		t.Fatalf("got %+v", diags)
	}
	if diags[0].SuggestedFix != "rename to \"name_value\"" {
		t.Errorf("got suggested fix %q", diags[0].SuggestedFix)
	}
}

func TestUdtHistorySyntaxError(t *testing.T) {
	src := "type MarketSettings\n    float adaptiveFast\n\n" +
		"var MarketSettings market = MarketSettings.new()\n" +
		"x = market.adaptiveFast[1]\n"
	in := build(t, src)
	diags := ValidateUdtHistorySyntax(in)
	if len(diags) != 1 || string(diags[0].Code) != "UDT_HISTORY_SYNTAX_ERROR" {
		t.Fatalf("got %+v", diags)
	}
}

func TestUdtHistorySyntaxErrorSuggestsActualIndex(t *testing.T) {
	src := "type Series\n    float v\n\n" +
		"var Series s = Series.new()\n" +
		"x = s.v[1]\n"
	in := build(t, src)
	diags := ValidateUdtHistorySyntax(in)
	if len(diags) != 1 {
		t.Fatalf("got %+v", diags)
	}
	want := "use (s[1]).v instead"
	if diags[0].SuggestedFix != want {
		t.Errorf("got suggested fix %q, want %q", diags[0].SuggestedFix, want)
	}
}

func TestUdtHistoryLegalShapeNotFlagged(t *testing.T) {
	src := "type MarketSettings\n    float adaptiveFast\n\n" +
		"var MarketSettings market = MarketSettings.new()\n" +
		"x = (market[1]).adaptiveFast\n"
	in := build(t, src)
	diags := ValidateUdtHistorySyntax(in)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}

func TestLineContinuationAfterTernaryQuestionIllegal(t *testing.T) {
	in := build(t, "x = cond ?\n    a : b")
	diags := ValidateLineContinuation(in)
	if len(diags) != 1 || string(diags[0].Code) != "INVALID_LINE_CONTINUATION" {
		t.Fatalf("got %+v", diags)
	}
}

func TestLineContinuationAfterTernaryColonIllegal(t *testing.T) {
	in := build(t, "x = cond ? a :\n    b")
	diags := ValidateLineContinuation(in)
	if len(diags) != 1 || string(diags[0].Code) != "INVALID_LINE_CONTINUATION" {
		t.Fatalf("got %+v", diags)
	}
	if diags[0].Column != 14 {
		t.Errorf("expected diagnostic at the ':' column, got column %d", diags[0].Column)
	}
}

func TestLineContinuationInsideParensLegal(t *testing.T) {
	in := build(t, "x = f(\n    a,\n    b\n)")
	diags := ValidateLineContinuation(in)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
}
