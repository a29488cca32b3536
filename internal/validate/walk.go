// Package validate implements the rule families of spec.md §4.4, one file
// per family. Each validator is a pure function over a parsed script and
// runs independently so the review engine can fan them out with
// golang.org/x/sync/errgroup.
package validate

import (
	"pinelint/internal/ast"
	"pinelint/internal/catalog"
	"pinelint/internal/token"
)

// Input bundles everything a validator needs to see.
type Input struct {
	Script   *ast.Script
	Tokens   []token.Token
	Udts     map[string]*ast.UdtDecl
	VarTypes map[string]string
	Source   string
}

// Func is the shape every validator implements.
type Func func(in Input) []catalog.Diagnostic

// CollectCalls walks the whole script - top-level statements and every
// nested expression - and returns every FunctionCall found, in source
// order. Validators operate on this flat list rather than re-walking the
// tree themselves.
func CollectCalls(script *ast.Script) []*ast.FunctionCall {
	var out []*ast.FunctionCall
	for _, tl := range script.Body {
		walkTopLevel(tl, &out)
	}
	return out
}

func walkTopLevel(tl ast.TopLevel, out *[]*ast.FunctionCall) {
	switch n := tl.(type) {
	case *ast.FunctionCall:
		*out = append(*out, n)
		for _, a := range n.Args {
			walkExpr(a.Value, out)
		}
	case *ast.Assignment:
		if n.Value != nil {
			walkExpr(n.Value, out)
		}
	}
}

func walkExpr(e ast.Expr, out *[]*ast.FunctionCall) {
	switch n := e.(type) {
	case *ast.FunctionCall:
		*out = append(*out, n)
		for _, a := range n.Args {
			walkExpr(a.Value, out)
		}
	case *ast.FieldAccess:
		walkExpr(n.Object, out)
	case *ast.HistoryAccess:
		walkExpr(n.Target, out)
		walkExpr(n.Index, out)
	case *ast.Ternary:
		walkExpr(n.Cond, out)
		walkExpr(n.Then, out)
		walkExpr(n.Else, out)
	}
}

// CollectHistoryAccesses returns every HistoryAccess node anywhere in the
// script, used by the UDT history-syntax validator.
func CollectHistoryAccesses(script *ast.Script) []*ast.HistoryAccess {
	var out []*ast.HistoryAccess
	var visit func(e ast.Expr)
	visit = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.HistoryAccess:
			out = append(out, n)
			visit(n.Target)
			visit(n.Index)
		case *ast.FieldAccess:
			visit(n.Object)
		case *ast.Ternary:
			visit(n.Cond)
			visit(n.Then)
			visit(n.Else)
		case *ast.FunctionCall:
			for _, a := range n.Args {
				visit(a.Value)
			}
		}
	}
	for _, tl := range script.Body {
		switch n := tl.(type) {
		case *ast.FunctionCall:
			for _, a := range n.Args {
				visit(a.Value)
			}
		case *ast.Assignment:
			if n.Value != nil {
				visit(n.Value)
			}
		}
	}
	return out
}
