// Package ast defines the shallow AST node types the validators operate on
// and a recursive-descent builder that recovers function-call structure
// from a token stream (spec component C2).
package ast

import "pinelint/internal/token"

// TopLevel is one top-level statement: Assignment, *FunctionCall,
// *UdtDecl, or *Unknown.
type TopLevel interface{ topLevelNode() }

// Expr is the shallow expression sum type spec.md §3 describes.
type Expr interface {
	exprNode()
	SpanOf() token.Span
}

// Script is the root AST node.
type Script struct {
	Body []TopLevel
	// Version holds the //@version= comment value, if any; metadata only
	// (spec.md §9 Open Questions).
	Version string
}

// LiteralKind is the closed set of literal forms.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitInt
	LitFloat
	LitBool
	LitNa
)

// Literal is a literal expression.
type Literal struct {
	Kind LiteralKind
	Raw  string
	Span token.Span
}

func (*Literal) exprNode()             {}
func (l *Literal) SpanOf() token.Span  { return l.Span }

// Identifier is a bare name reference.
type Identifier struct {
	Name string
	Span token.Span
}

func (*Identifier) exprNode()            {}
func (i *Identifier) SpanOf() token.Span { return i.Span }

// FieldAccess is `object.field`.
type FieldAccess struct {
	Object Expr
	Field  string
	Span   token.Span
}

func (*FieldAccess) exprNode()            {}
func (f *FieldAccess) SpanOf() token.Span { return f.Span }

// HistoryAccess is the postfix `target[index]` history operator.
type HistoryAccess struct {
	Target Expr
	Index  Expr
	Span   token.Span
}

func (*HistoryAccess) exprNode()            {}
func (h *HistoryAccess) SpanOf() token.Span { return h.Span }

// Ternary is `cond ? then : else`.
type Ternary struct {
	Cond, Then, Else Expr
	QSpan, ColonSpan token.Span
	Span             token.Span
}

func (*Ternary) exprNode()            {}
func (t *Ternary) SpanOf() token.Span { return t.Span }

// Arg is one function-call argument.
type Arg struct {
	Position uint16
	Name     string // empty when positional
	Value    Expr
	Span     token.Span
}

// FunctionCall recovers a call's namespace, name, and argument list.
type FunctionCall struct {
	Name      string
	Namespace string // empty when unqualified
	Args      []Arg
	Span      token.Span
}

func (*FunctionCall) exprNode()            {}
func (f *FunctionCall) SpanOf() token.Span { return f.Span }
func (*FunctionCall) topLevelNode()        {}

// QualifiedName returns "namespace.name" or just "name".
func (f *FunctionCall) QualifiedName() string {
	if f.Namespace == "" {
		return f.Name
	}
	return f.Namespace + "." + f.Name
}

// Unknown is the parser's recovery fallback node.
type Unknown struct {
	Raw  string
	Span token.Span
}

func (*Unknown) exprNode()            {}
func (u *Unknown) SpanOf() token.Span { return u.Span }
func (*Unknown) topLevelNode()        {}

// Assignment is `target := value` or `target = value`, optionally preceded
// by `var`/`varip` and an explicit type name.
type Assignment struct {
	Target       string
	DeclaredType string // non-empty for `var Type name = ...`
	IsVar        bool
	Walrus       bool
	Value        Expr
	Span         token.Span
}

func (*Assignment) topLevelNode() {}

// UdtField is one field of a `type Name` declaration.
type UdtField struct {
	Name              string
	DeclaredType      string
	IsSimpleQualified bool
}

// UdtDecl is a `type Name` block.
type UdtDecl struct {
	Name   string
	Fields []UdtField
	Span   token.Span
}

func (*UdtDecl) topLevelNode() {}

// FieldByName looks up a field descriptor by name.
func (u *UdtDecl) FieldByName(name string) (UdtField, bool) {
	for _, f := range u.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return UdtField{}, false
}
