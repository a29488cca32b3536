package ast

import (
	"pinelint/internal/catalog"
	"pinelint/internal/token"
)

// MaxCallDepth bounds nested call recursion (spec.md §4.2); exceeding it
// yields a parse diagnostic and the innermost call becomes Unknown.
const MaxCallDepth = 32

// Result is the AST builder's output.
type Result struct {
	Script      *Script
	Udts        map[string]*UdtDecl
	VarTypes    map[string]string // variable name -> UDT type name
	Diagnostics []catalog.Diagnostic
}

// Parse builds a shallow AST from a token stream and the original source
// text (needed to slice raw text for Unknown recovery nodes).
func Parse(toks []token.Token, src string, version string) Result {
	filtered := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != token.Comment {
			filtered = append(filtered, t)
		}
	}
	p := &parser{toks: filtered, src: src, udts: map[string]*UdtDecl{}, varTypes: map[string]string{}}
	script := p.parseScript()
	script.Version = version
	return Result{Script: script, Udts: p.udts, VarTypes: p.varTypes, Diagnostics: p.diags}
}

type parser struct {
	toks     []token.Token
	src      string
	pos      int
	depth    int
	callDepth int
	diags    []catalog.Diagnostic
	udts     map[string]*UdtDecl
	varTypes map[string]string
}

func isNLKind(k token.Kind) bool { return k == token.Newline || k == token.LineContinuation }

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[p.pos]
}

func (p *parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return token.Token{Kind: token.Eof}
	}
	return p.toks[idx]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) skipNL() {
	for isNLKind(p.cur().Kind) {
		p.advance()
	}
}

func (p *parser) skipToNL() {
	for !isNLKind(p.cur().Kind) && p.cur().Kind != token.Eof {
		p.advance()
	}
}

func (p *parser) sliceSrc(from, to uint32) string {
	if int(to) > len(p.src) {
		to = uint32(len(p.src))
	}
	if from > to {
		return ""
	}
	return p.src[from:to]
}

func spanCover(a, b token.Span) token.Span {
	end := b.Pos.Offset + b.Length
	return token.Span{Pos: a.Pos, Length: end - a.Pos.Offset}
}

func (p *parser) diag(code catalog.Code, pos token.Position, msg string) {
	rule := catalog.Rules[code]
	p.diags = append(p.diags, catalog.Diagnostic{
		Code: code, Severity: rule.DefaultSeverity, Category: rule.Category,
		Line: pos.Line, Column: pos.Column, Message: msg,
	})
}

// --- top level ---

func (p *parser) parseScript() *Script {
	var body []TopLevel
	for p.cur().Kind != token.Eof {
		if isNLKind(p.cur().Kind) {
			p.advance()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return &Script{Body: body}
}

func (p *parser) recoverUnknown(startIdx int) TopLevel {
	startTok := p.toks[startIdx]
	p.pos = startIdx
	p.skipToNL()
	endTok := p.cur()
	raw := p.sliceSrc(startTok.Span.Pos.Offset, endTok.Span.Pos.Offset)
	return &Unknown{Raw: raw, Span: token.Span{Pos: startTok.Span.Pos, Length: uint32(len(raw))}}
}

func (p *parser) parseStatement() TopLevel {
	start := p.pos

	if p.cur().Kind == token.Keyword && p.cur().Value == "type" {
		return p.parseUdtDecl()
	}

	if p.cur().IsPunct("[") {
		p.advance()
		for !p.cur().IsPunct("]") && p.cur().Kind != token.Eof && !isNLKind(p.cur().Kind) {
			p.advance()
		}
		if p.cur().IsPunct("]") {
			p.advance()
		}
		if p.cur().IsOperator("=") || p.cur().IsOperator(":=") {
			p.advance()
			val := p.parseExpr()
			return &Assignment{Target: "_destructure", Value: val, Span: token.Span{Pos: p.toks[start].Span.Pos}}
		}
		return p.recoverUnknown(start)
	}

	isVar := false
	if p.cur().Kind == token.Keyword && (p.cur().Value == "var" || p.cur().Value == "varip") {
		isVar = true
		p.advance()
	}

	if p.cur().Kind != token.Identifier {
		return p.recoverUnknown(start)
	}

	// typed declaration: `var Type name = expr`
	if p.peek(1).Kind == token.Identifier {
		declaredType := p.advance().Value
		nameTok := p.advance()
		if p.cur().IsOperator("=") || p.cur().IsOperator(":=") {
			return p.finishAssignment(start, nameTok.Value, declaredType, isVar)
		}
		return p.recoverUnknown(start)
	}

	nameTok := p.cur()
	name := p.advance().Value

	// namespaced call: `ns.name(...)`
	if p.cur().IsPunct(".") && p.peek(1).Kind == token.Identifier {
		save := p.pos
		p.advance() // '.'
		second := p.advance().Value
		if p.cur().IsPunct("(") {
			return p.parseCallArgs(name, second, p.toks[start].Span.Pos).(TopLevel)
		}
		p.pos = save
	}

	if p.cur().IsPunct("(") {
		return p.parseCallArgs("", name, nameTok.Span.Pos).(TopLevel)
	}

	if p.cur().IsOperator("=") || p.cur().IsOperator(":=") {
		return p.finishAssignment(start, name, "", isVar)
	}

	return p.recoverUnknown(start)
}

func (p *parser) finishAssignment(start int, target, declaredType string, isVar bool) TopLevel {
	walrus := p.cur().Value == ":="
	p.advance()
	val := p.parseExpr()
	startPos := p.toks[start].Span.Pos
	a := &Assignment{Target: target, DeclaredType: declaredType, IsVar: isVar, Walrus: walrus, Value: val, Span: token.Span{Pos: startPos}}
	if call, ok := val.(*FunctionCall); ok && call.Name == "new" && call.Namespace != "" {
		p.varTypes[target] = call.Namespace
	}
	if declaredType != "" {
		p.varTypes[target] = declaredType
	}
	return a
}

func (p *parser) parseUdtDecl() TopLevel {
	startTok := p.advance() // 'type'
	name := ""
	if p.cur().Kind == token.Identifier {
		name = p.advance().Value
	}
	p.skipNL()
	var fields []UdtField
	for p.cur().Kind != token.Eof {
		first := p.cur()
		if first.Span.Pos.Column <= 1 {
			break
		}
		isSimple := false
		if first.Kind == token.Keyword && first.Value == "simple" {
			isSimple = true
			p.advance()
			first = p.cur()
		}
		if first.Kind != token.Identifier && first.Kind != token.Keyword {
			p.skipToNL()
			p.skipNL()
			continue
		}
		declaredType := p.advance().Value
		if p.cur().Kind != token.Identifier {
			p.skipToNL()
			p.skipNL()
			continue
		}
		fieldName := p.advance().Value
		fields = append(fields, UdtField{Name: fieldName, DeclaredType: declaredType, IsSimpleQualified: isSimple})
		p.skipToNL()
		p.skipNL()
	}
	decl := &UdtDecl{Name: name, Fields: fields, Span: token.Span{Pos: startTok.Span.Pos}}
	if name != "" {
		p.udts[name] = decl
	}
	return decl
}

// --- calls and expressions ---

func (p *parser) parseCallArgs(namespace, name string, startPos token.Position) Expr {
	p.advance() // '('
	p.depth++
	p.callDepth++
	defer func() { p.depth--; p.callDepth-- }()

	if p.callDepth > MaxCallDepth {
		p.diag(catalog.CodeParseError, startPos, "call nesting exceeds maximum depth")
		p.skipBalanced()
		last := p.toks[p.pos-1]
		raw := p.sliceSrc(startPos.Offset, last.Span.Pos.Offset+last.Span.Length)
		return &Unknown{Raw: raw, Span: token.Span{Pos: startPos, Length: uint32(len(raw))}}
	}

	var args []Arg
	posIdx := uint16(0)
	for {
		p.skipNL()
		if p.cur().IsPunct(")") || p.cur().Kind == token.Eof {
			break
		}
		argStart := p.cur()
		argName := ""
		if p.cur().Kind == token.Identifier && p.peek(1).IsOperator("=") {
			argName = p.advance().Value
			p.advance() // '='
		}
		val := p.parseExpr()
		endOffset := val.SpanOf().Pos.Offset + val.SpanOf().Length
		args = append(args, Arg{
			Position: posIdx, Name: argName, Value: val,
			Span: token.Span{Pos: argStart.Span.Pos, Length: endOffset - argStart.Span.Pos.Offset},
		})
		if argName == "" {
			posIdx++
		}
		p.skipNL()
		if p.cur().IsPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.skipNL()
	endTok := p.cur()
	if p.cur().IsPunct(")") {
		p.advance()
	}
	end := endTok.Span.Pos.Offset + endTok.Span.Length
	return &FunctionCall{Name: name, Namespace: namespace, Args: args, Span: token.Span{Pos: startPos, Length: end - startPos.Offset}}
}

// skipBalanced consumes tokens until the matching ')' for an already
// consumed '(' is found, used to recover from excess call nesting.
func (p *parser) skipBalanced() {
	depth := 1
	for p.cur().Kind != token.Eof && depth > 0 {
		if p.cur().IsPunct("(") {
			depth++
		} else if p.cur().IsPunct(")") {
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func (p *parser) parseExpr() Expr {
	start := p.cur()
	e := p.parseTernary()
	if p.isDanglingBinaryOperator() {
		return p.captureUnknownTail(start, e)
	}
	return e
}

func (p *parser) isDanglingBinaryOperator() bool {
	c := p.cur()
	if c.Kind == token.Operator {
		switch c.Value {
		case "+", "-", "*", "/", "%", "==", "!=", "<=", ">=", "<", ">":
			return true
		}
	}
	if c.Kind == token.Keyword {
		switch c.Value {
		case "and", "or":
			return true
		}
	}
	return false
}

// captureUnknownTail folds a structurally-parsed head plus trailing binary
// operator chain into a single Unknown node, since the AST's Expr sum type
// has no general binary-expression variant (spec.md §1 Non-goals excludes
// full expression evaluation).
func (p *parser) captureUnknownTail(start token.Token, head Expr) Expr {
	localDepth := 0
	for {
		c := p.cur()
		if c.Kind == token.Eof {
			break
		}
		if isNLKind(c.Kind) && localDepth == 0 {
			break
		}
		if c.IsPunct("(") || c.IsPunct("[") {
			localDepth++
		} else if c.IsPunct(")") || c.IsPunct("]") {
			if localDepth == 0 {
				break
			}
			localDepth--
		} else if localDepth == 0 && (c.IsPunct(",") || c.IsOperator(":") || c.IsOperator("?")) {
			break
		}
		p.advance()
	}
	endOffset := start.Span.Pos.Offset
	if p.pos > 0 {
		last := p.toks[p.pos-1]
		endOffset = last.Span.Pos.Offset + last.Span.Length
	}
	raw := p.sliceSrc(start.Span.Pos.Offset, endOffset)
	_ = head
	return &Unknown{Raw: raw, Span: token.Span{Pos: start.Span.Pos, Length: uint32(len(raw))}}
}

func (p *parser) parseTernary() Expr {
	cond := p.parseAtomChain()
	if p.cur().IsOperator("?") {
		qSpan := p.cur().Span
		p.advance()
		p.skipNL()
		thenExpr := p.parseAtomChain()
		p.skipNL()
		if !p.cur().IsOperator(":") {
			return cond
		}
		colonSpan := p.cur().Span
		p.advance()
		p.skipNL()
		elseExpr := p.parseTernary()
		return &Ternary{
			Cond: cond, Then: thenExpr, Else: elseExpr,
			QSpan: qSpan, ColonSpan: colonSpan,
			Span: spanCover(cond.SpanOf(), elseExpr.SpanOf()),
		}
	}
	return cond
}

// parseAtomChain parses one primary expression plus postfix field-access
// and history-access operators.
func (p *parser) parseAtomChain() Expr {
	e := p.parsePrimary()
	for {
		if p.cur().IsPunct(".") && p.peek(1).Kind == token.Identifier {
			p.advance()
			fieldTok := p.advance()
			end := fieldTok.Span.Pos.Offset + fieldTok.Span.Length
			e = &FieldAccess{Object: e, Field: fieldTok.Value, Span: token.Span{Pos: e.SpanOf().Pos, Length: end - e.SpanOf().Pos.Offset}}
			continue
		}
		if p.cur().IsPunct("[") {
			p.advance()
			p.depth++
			idx := p.parseExpr()
			p.skipNL()
			if p.cur().IsPunct("]") {
				p.advance()
			}
			p.depth--
			end := p.toks[maxInt(p.pos-1, 0)].Span.Pos.Offset + p.toks[maxInt(p.pos-1, 0)].Span.Length
			e = &HistoryAccess{Target: e, Index: idx, Span: token.Span{Pos: e.SpanOf().Pos, Length: end - e.SpanOf().Pos.Offset}}
			continue
		}
		break
	}
	return e
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (p *parser) parsePrimary() Expr {
	c := p.cur()

	if c.Kind == token.Punctuation && c.Value == "(" {
		p.advance()
		p.depth++
		inner := p.parseExpr()
		p.skipNL()
		if p.cur().IsPunct(")") {
			p.advance()
		}
		p.depth--
		return inner
	}

	if c.Kind == token.Operator && (c.Value == "-" || c.Value == "+") && (p.peek(1).Kind == token.Integer || p.peek(1).Kind == token.Float) {
		signTok := p.advance()
		numTok := p.advance()
		raw := signTok.Value + numTok.Value
		kind := LitInt
		if numTok.Kind == token.Float {
			kind = LitFloat
		}
		end := numTok.Span.Pos.Offset + numTok.Span.Length
		return &Literal{Kind: kind, Raw: raw, Span: token.Span{Pos: signTok.Span.Pos, Length: end - signTok.Span.Pos.Offset}}
	}

	switch c.Kind {
	case token.Integer:
		p.advance()
		return &Literal{Kind: LitInt, Raw: c.Value, Span: c.Span}
	case token.Float:
		p.advance()
		return &Literal{Kind: LitFloat, Raw: c.Value, Span: c.Span}
	case token.String:
		p.advance()
		return &Literal{Kind: LitString, Raw: c.Value, Span: c.Span}
	case token.Keyword:
		switch c.Value {
		case "true", "false":
			p.advance()
			return &Literal{Kind: LitBool, Raw: c.Value, Span: c.Span}
		case "na":
			p.advance()
			return &Literal{Kind: LitNa, Raw: c.Value, Span: c.Span}
		case "not":
			p.advance()
			return p.parseAtomChain()
		}
	case token.Identifier:
		name := p.advance().Value
		if p.cur().IsPunct(".") && p.peek(1).Kind == token.Identifier {
			save := p.pos
			p.advance()
			second := p.advance().Value
			if p.cur().IsPunct("(") {
				return p.parseCallArgs(name, second, c.Span.Pos)
			}
			p.pos = save
		}
		if p.cur().IsPunct("(") {
			return p.parseCallArgs("", name, c.Span.Pos)
		}
		return &Identifier{Name: name, Span: c.Span}
	}

	// Unrecognized token where an expression was expected.
	p.advance()
	return &Unknown{Raw: c.Value, Span: c.Span}
}
