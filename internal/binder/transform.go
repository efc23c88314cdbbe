package binder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cwbudde/go-binder/internal/graph"
)

// executeTransformer implements spec §4.7: when a Relation or Transform
// Statement is post-processed, its callee is a declarative code-generating
// function with compile-time-evaluated parameters.
func (e *Engine) executeTransformer(b *Binding, stmt *graph.Statement) {
	scope := b.currentScope()
	ident, ok := graph.Find(scope, stmt.TransformerName)
	if !ok || ident.Target != graph.IdentFunction {
		e.Diags.Report(TemplateMisuse, stmt.Pos, "unknown transformer %q", stmt.TransformerName)
		return
	}
	transformer := ident.Function

	env, err := e.evalTransformerArgs(transformer, stmt.TransformerArgs)
	if err != nil {
		e.Diags.Report(SyntaxAtBindTime, stmt.Pos, "transformer %q: %v", stmt.TransformerName, err)
		return
	}

	var parentTmpl, childTmpl *graph.Template
	if stmt.Kind == graph.StmtRelation {
		parentTmpl, childTmpl = e.relationTemplates(scope)
	}
	var relation *graph.Relation
	if parentTmpl != nil && childTmpl != nil {
		relation = e.Graph.NewRelation(parentTmpl, childTmpl, transformerLabels(env), transformerCascade(env))
	}

	for _, inner := range transformer.Block.Statements {
		if inner.Kind != graph.StmtAppendCode && inner.Kind != graph.StmtPrependCode {
			continue
		}
		dest := e.resolveTransformerDestination(scope, inner)
		if dest == nil {
			e.Diags.Report(TemplateMisuse, inner.Pos, "transformer %q: could not resolve destination block", stmt.TransformerName)
			continue
		}
		if inner.Sub == nil {
			continue
		}
		injectedBlock := e.Graph.CopyBlock(inner.Sub, dest.OwnerKind)
		substituteBlock(injectedBlock, env)

		for _, s := range injectedBlock.Statements {
			index := len(dest.Statements)
			if inner.Kind == graph.StmtPrependCode {
				index = 0
			}
			e.Graph.InsertStatement(dest, s, index)
			if relation != nil {
				relation.InjectedStatements = append(relation.InjectedStatements, s)
			}
			e.QueueStatement(b.Signature, s, b.Instantiating)
		}
	}
}

// evalTransformerArgs binds transformer's declared parameter names to the
// compile-time Values of stmt's TransformerArgs (spec §4.7 "Parameters are
// evaluated via a small expression evaluator").
func (e *Engine) evalTransformerArgs(transformer *graph.Function, args []graph.Expression) (map[string]Value, error) {
	env := make(map[string]Value, len(args))
	for i, arg := range args {
		if i >= len(transformer.Block.Variables) {
			break
		}
		paramName := transformer.Block.Variables[i].Name
		var (
			v   Value
			err error
		)
		if e.ValueEval != nil {
			v, err = e.ValueEval.Evaluate(transformer.Block, arg, nil)
		} else {
			v, err = evalTransformerParam(env, arg)
		}
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", paramName, err)
		}
		env[paramName] = v
	}
	return env, nil
}

// relationTemplates resolves the parent/child Templates a Relation
// transformer links. Both are the Template of the nearest enclosing Class
// block; the transformer's arguments are not consulted, so the Relation
// links that Template to itself. Outside any Class block it returns nil,
// nil and no Relation is created.
func (e *Engine) relationTemplates(scope *graph.Block) (*graph.Template, *graph.Template) {
	for b := scope; b != nil; b = b.Parent {
		if b.OwnerKind == graph.BlockOwnerClass && b.OwnerClass != nil {
			return b.OwnerClass.Template, b.OwnerClass.Template
		}
	}
	return nil, nil
}

func transformerLabels(env map[string]Value) []string {
	v, ok := env["labels"]
	if !ok || v.Kind != ValueString {
		return nil
	}
	return strings.Split(v.String, ",")
}

func transformerCascade(env map[string]Value) bool {
	v, ok := env["cascade"]
	return ok && v.Kind == ValueBool && v.Bool
}

// resolveTransformerDestination resolves an AppendCode/PrependCode
// statement's optional path expression to a destination Block, defaulting
// to the invoking scope (spec §4.7 "resolves the destination block from an
// optional path expression").
func (e *Engine) resolveTransformerDestination(scope *graph.Block, inner *graph.Statement) *graph.Block {
	if inner.Root == nil {
		return scope
	}
	ident, ok := inner.Root.(*graph.IdentExpr)
	if !ok {
		return scope
	}
	found, ok := graph.Find(scope, ident.Name)
	if !ok || found.Target != graph.IdentFunction {
		return scope
	}
	return found.Function.Block
}

var substitutionPattern = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*\$?|\$L`)

// substituteBlock implements the identifier textual substitution of spec
// §4.7: identifiers and string literals containing `$name` or `$name$` are
// expanded against the transformer's variable values. A bare `$L` is left
// unchanged; `$L` followed by more name characters is looked up like any
// other `$name`.
func substituteBlock(block *graph.Block, env map[string]Value) {
	for name, ident := range block.Idents {
		expanded := expandTemplate(name, env)
		if expanded != name {
			delete(block.Idents, name)
			ident.Name = expanded
			block.Idents[expanded] = ident
		}
	}
	for _, v := range block.Variables {
		v.Name = expandTemplate(v.Name, env)
	}
	for _, stmt := range block.Statements {
		substituteExpr(stmt.Root, env)
		if stmt.Sub != nil {
			substituteBlock(stmt.Sub, env)
		}
	}
}

func substituteExpr(expr graph.Expression, env map[string]Value) {
	if expr == nil {
		return
	}
	switch n := expr.(type) {
	case *graph.IdentExpr:
		n.Name = expandTemplate(n.Name, env)
	case *graph.LiteralExpr:
		if n.Kind() == graph.ExprStringLiteral {
			n.StringVal = expandTemplate(n.StringVal, env)
		}
	}
	for _, c := range expr.Children() {
		substituteExpr(c, env)
	}
}

func expandTemplate(s string, env map[string]Value) string {
	return substitutionPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.Trim(match, "$")
		if name == "L" {
			return match // a bare $L is not expanded
		}
		v, ok := env[name]
		if !ok {
			return match
		}
		return valueText(v)
	})
}

func valueText(v Value) string {
	switch v.Kind {
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueFloat:
		return fmt.Sprintf("%g", v.Float)
	case ValueBool:
		return fmt.Sprintf("%t", v.Bool)
	case ValueString:
		return v.String
	default:
		return ""
	}
}
