package ast

import (
	"testing"

	"pinelint/internal/lexer"
)

func parseSrc(t *testing.T, src string) Result {
	t.Helper()
	lr := lexer.Lex(src)
	return Parse(lr.Tokens, src, lr.VersionComment)
}

func firstCall(t *testing.T, body []TopLevel) *FunctionCall {
	t.Helper()
	for _, tl := range body {
		if fc, ok := tl.(*FunctionCall); ok {
			return fc
		}
		if a, ok := tl.(*Assignment); ok {
			if fc, ok := a.Value.(*FunctionCall); ok {
				return fc
			}
		}
	}
	t.Fatalf("no function call found in %d statements", len(body))
	return nil
}

func TestParseSimpleCall(t *testing.T) {
	r := parseSrc(t, `indicator("Test", precision=-1)`)
	call := firstCall(t, r.Script.Body)
	if call.Name != "indicator" {
		t.Errorf("got name %q", call.Name)
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if call.Args[1].Name != "precision" {
		t.Errorf("got arg name %q", call.Args[1].Name)
	}
	lit, ok := call.Args[1].Value.(*Literal)
	if !ok {
		t.Fatalf("expected Literal, got %T", call.Args[1].Value)
	}
	if lit.Raw != "-1" || lit.Kind != LitInt {
		t.Errorf("got literal %+v", lit)
	}
}

func TestParseNamespacedCall(t *testing.T) {
	r := parseSrc(t, `[m, s, h] = ta.macd(close, 12, 26, 9)`)
	call := firstCall(t, r.Script.Body)
	if call.QualifiedName() != "ta.macd" {
		t.Errorf("got qualified name %q", call.QualifiedName())
	}
	if len(call.Args) != 4 {
		t.Fatalf("got %d args, want 4", len(call.Args))
	}
}

func TestParseUdtDeclAndBinding(t *testing.T) {
	src := "type MarketSettings\n    float adaptiveFast\n    simple int lookback\n" +
		"\nvar MarketSettings market = MarketSettings.new()\n"
	r := parseSrc(t, src)
	decl, ok := r.Udts["MarketSettings"]
	if !ok {
		t.Fatal("expected MarketSettings UDT decl")
	}
	if len(decl.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(decl.Fields))
	}
	f0 := decl.Fields[0]
	if f0.Name != "adaptiveFast" || f0.DeclaredType != "float" || f0.IsSimpleQualified {
		t.Errorf("got field 0: %+v", f0)
	}
	f1 := decl.Fields[1]
	if f1.Name != "lookback" || !f1.IsSimpleQualified {
		t.Errorf("got field 1: %+v", f1)
	}
	if r.VarTypes["market"] != "MarketSettings" {
		t.Errorf("got VarTypes[market]=%q, want MarketSettings", r.VarTypes["market"])
	}
}

func TestParseFieldAccess(t *testing.T) {
	r := parseSrc(t, "x = market.adaptiveFast")
	a, ok := r.Script.Body[0].(*Assignment)
	if !ok {
		t.Fatalf("expected Assignment, got %T", r.Script.Body[0])
	}
	fa, ok := a.Value.(*FieldAccess)
	if !ok {
		t.Fatalf("expected FieldAccess, got %T", a.Value)
	}
	if fa.Field != "adaptiveFast" {
		t.Errorf("got field %q", fa.Field)
	}
	if id, ok := fa.Object.(*Identifier); !ok || id.Name != "market" {
		t.Errorf("got object %+v", fa.Object)
	}
}

func TestParseHistoryAccessVsFieldAccess(t *testing.T) {
	// legal: wrap the object, then access the field
	r := parseSrc(t, "x = (market[1]).adaptiveFast")
	a := r.Script.Body[0].(*Assignment)
	fa, ok := a.Value.(*FieldAccess)
	if !ok {
		t.Fatalf("expected FieldAccess, got %T", a.Value)
	}
	hist, ok := fa.Object.(*HistoryAccess)
	if !ok {
		t.Fatalf("expected HistoryAccess under FieldAccess, got %T", fa.Object)
	}
	if _, ok := hist.Target.(*Identifier); !ok {
		t.Errorf("got history target %+v", hist.Target)
	}
}

func TestParseIllegalHistoryOnField(t *testing.T) {
	// illegal shape: field[n] directly - still parses structurally as
	// HistoryAccess over a FieldAccess; the UDT history validator flags it.
	r := parseSrc(t, "x = market.adaptiveFast[1]")
	a := r.Script.Body[0].(*Assignment)
	hist, ok := a.Value.(*HistoryAccess)
	if !ok {
		t.Fatalf("expected HistoryAccess, got %T", a.Value)
	}
	if _, ok := hist.Target.(*FieldAccess); !ok {
		t.Errorf("got history target %T, want FieldAccess", hist.Target)
	}
}

func TestParseTernaryWithLineContinuationSpans(t *testing.T) {
	r := parseSrc(t, "x = cond ?\n    a : b")
	a := r.Script.Body[0].(*Assignment)
	tern, ok := a.Value.(*Ternary)
	if !ok {
		t.Fatalf("expected Ternary, got %T", a.Value)
	}
	if tern.QSpan.Pos.Line != 1 {
		t.Errorf("got QSpan line %d, want 1", tern.QSpan.Pos.Line)
	}
	if tern.ColonSpan.Pos.Line != 2 {
		t.Errorf("got ColonSpan line %d, want 2", tern.ColonSpan.Pos.Line)
	}
}

func TestParseRightAssociativeTernary(t *testing.T) {
	r := parseSrc(t, "x = a ? b : c ? d : e")
	a := r.Script.Body[0].(*Assignment)
	outer, ok := a.Value.(*Ternary)
	if !ok {
		t.Fatalf("expected Ternary, got %T", a.Value)
	}
	if _, ok := outer.Else.(*Ternary); !ok {
		t.Errorf("expected nested Ternary in Else, got %T", outer.Else)
	}
}

func TestParseMultiLineCall(t *testing.T) {
	src := "indicator(\n    \"Test\",\n    precision=2\n)"
	r := parseSrc(t, src)
	call := firstCall(t, r.Script.Body)
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
}

func TestParseDeprecatedParamCall(t *testing.T) {
	r := parseSrc(t, `table.cell(t, 0, 0, "x", textColor=color.red)`)
	call := firstCall(t, r.Script.Body)
	if call.QualifiedName() != "table.cell" {
		t.Errorf("got %q", call.QualifiedName())
	}
	found := false
	for _, arg := range call.Args {
		if arg.Name == "textColor" {
			found = true
		}
	}
	if !found {
		t.Error("expected textColor named argument to survive parsing")
	}
}

func TestParseUnrecognizedStatementBecomesUnknown(t *testing.T) {
	r := parseSrc(t, "123abc +++ !!!\nx = 1")
	if len(r.Script.Body) == 0 {
		t.Fatal("expected at least one top-level node")
	}
	if _, ok := r.Script.Body[0].(*Unknown); !ok {
		t.Errorf("expected first statement to recover as Unknown, got %T", r.Script.Body[0])
	}
}

func TestParseDeepCallNestingRecovers(t *testing.T) {
	open := ""
	for i := 0; i < 40; i++ {
		open += "f("
	}
	close_ := ""
	for i := 0; i < 40; i++ {
		close_ += ")"
	}
	r := parseSrc(t, "x = "+open+"1"+close_)
	foundParseErr := false
	for _, d := range r.Diagnostics {
		if string(d.Code) == "PARSE_ERROR" {
			foundParseErr = true
		}
	}
	if !foundParseErr {
		t.Error("expected a PARSE_ERROR diagnostic for call nesting beyond the limit")
	}
}
