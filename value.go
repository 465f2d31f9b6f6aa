package datafile

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/confkit/datafile/internal/pathops"
	"github.com/confkit/datafile/internal/treeutil"
)

// undefinedType is the type of the Undefined sentinel.
type undefinedType struct{}

// Undefined models the dynamic-language "undefined" value that Go lacks.
// It is distinct from nil, which is JSON null (a real value):
//
//   - a merge source value equal to Undefined is skipped, preserving the
//     existing value, while nil overwrites;
//   - a Computed value resolving to Undefined leaves the target untouched.
//
// Undefined never appears inside a document tree.
var Undefined undefinedType

// isUndefined reports whether v is the Undefined sentinel.
func isUndefined(v any) bool {
	_, ok := v.(undefinedType)
	return ok
}

// ValueContext is handed to computed values and guards. It describes the
// location a mutation operates on at the moment the callback runs.
type ValueContext struct {
	// Value is the current value at the path, or Undefined if absent.
	// For root-path operations it is the whole document data.
	Value any
	// Key is the terminal path segment; empty for the root path.
	Key string
	// Parent is the container holding Value; the whole document data for
	// root-path operations, or Undefined when the parent does not exist.
	Parent any
	// Path is the full path being operated on.
	Path Path
	// Document is the document the mutation runs against.
	Document *Document
}

// Value is a replacement value for a mutation: either a literal or a
// function of the current state. This replaces the dynamic
// "value-or-function" parameter shape with an explicit tagged form.
type Value interface {
	resolve(ctx ValueContext) any
}

type literalValue struct{ v any }

func (l literalValue) resolve(ValueContext) any { return l.v }

// Literal wraps a plain replacement value.
func Literal(v any) Value { return literalValue{v: v} }

type computedValue struct{ fn func(ValueContext) any }

func (c computedValue) resolve(ctx ValueContext) any {
	if c.fn == nil {
		return Undefined
	}
	return c.fn(ctx)
}

// Computed wraps a function deriving the replacement value from current
// state. Returning Undefined leaves the target untouched.
func Computed(fn func(ValueContext) any) Value { return computedValue{fn: fn} }

// resolveValue evaluates a Value against a context. A nil Value resolves to
// Undefined.
func resolveValue(v Value, ctx ValueContext) any {
	if v == nil {
		return Undefined
	}
	return v.resolve(ctx)
}

// Predicate gates whether a mutation executes. The zero state (no predicate
// configured) always passes; see If and IfExpr for guarded forms. Guards are
// evaluated before the mutation's value is resolved.
type Predicate interface {
	evaluate(ctx ValueContext) (bool, error)
}

type funcPredicate struct{ fn func(ValueContext) bool }

func (p funcPredicate) evaluate(ctx ValueContext) (bool, error) {
	if p.fn == nil {
		return true, nil
	}
	return p.fn(ctx), nil
}

// If guards a mutation with a function of the current state.
func If(fn func(ValueContext) bool) Predicate { return funcPredicate{fn: fn} }

type exprPredicate struct{ code string }

func (p exprPredicate) evaluate(ctx ValueContext) (bool, error) {
	env := map[string]any{
		"value":  treeutil.ToPlain(plainOrNil(ctx.Value)),
		"key":    ctx.Key,
		"path":   ctx.Path.String(),
		"data":   treeutil.ToPlain(ctx.Document.data),
		"exists": !isUndefined(ctx.Value),
	}
	result, err := expr.Eval(p.code, env)
	if err != nil {
		return false, fmt.Errorf("guard expression %q: %w", p.code, err)
	}
	return truthy(result), nil
}

// IfExpr guards a mutation with an expr-lang expression evaluated against
// {value, key, path, data, exists}. The result is coerced to a boolean.
//
//	doc.Set(datafile.ParsePath("license"), datafile.Literal("MIT"),
//	    datafile.WithIfExpr("!exists"))
func IfExpr(code string) Predicate { return exprPredicate{code: code} }

// resolvePredicate evaluates an optional guard; absent means true.
func resolvePredicate(p Predicate, ctx ValueContext) (bool, error) {
	if p == nil {
		return true, nil
	}
	return p.evaluate(ctx)
}

// truthy coerces an expression result to a boolean the way a dynamic guard
// would: nil, false, zero numbers, and empty strings are false.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return !treeutil.IsNil(val)
	}
}

// plainOrNil maps Undefined to nil for expression environments.
func plainOrNil(v any) any {
	if isUndefined(v) {
		return nil
	}
	return v
}

// valueContext builds the callback context for a path. The root path passes
// the document data as both value and parent with an empty key.
func (d *Document) valueContext(path Path) ValueContext {
	ctx := ValueContext{Path: path, Document: d}
	if path.IsRoot() {
		ctx.Value = d.data
		ctx.Parent = d.data
		return ctx
	}
	ctx.Key = path.Key()
	if v, ok := pathops.Get(d.data, path); ok {
		ctx.Value = v
	} else {
		ctx.Value = Undefined
	}
	if parent, ok := pathops.Get(d.data, path.Parent()); ok {
		ctx.Parent = parent
	} else {
		ctx.Parent = Undefined
	}
	return ctx
}
