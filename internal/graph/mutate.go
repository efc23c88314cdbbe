package graph

// CopyBlock deep-copies src into a fresh Block parented the same way (spec
// §4.1 "Block copy"): every Variable and Ident gets a fresh identity, every
// Statement and Expression is cloned, and Ident-bearing expressions are
// re-pointed at the copy's own Idents rather than src's. Nested Functions
// (methods) are NOT copied — their code is shared across every Class of a
// Template, only the name bindings that reach into per-class state are
// duplicated.
func (g *Graph) CopyBlock(src *Block, ownerKind BlockOwnerKind) *Block {
	dst := g.NewBlock(ownerKind, src.Parent)

	varMap := make(map[*Variable]*Variable, len(src.Variables))
	for _, v := range src.Variables {
		nv := &Variable{
			ID:               g.alloc(),
			Name:             v.Name,
			Kind:             v.Kind,
			Block:            dst,
			Pos:              v.Pos,
			Const:            v.Const,
			IsType:           v.IsType,
			Instantiated:     v.Instantiated,
			HasDefaultLookup: v.HasDefaultLookup,
		}
		g.variables[nv.ID] = nv
		dst.Variables = append(dst.Variables, nv)
		varMap[v] = nv
	}

	identMap := make(map[*Ident]*Ident, len(src.Idents))
	for name, id := range src.Idents {
		nid := &Ident{ID: g.alloc(), Name: name, Block: dst, Target: id.Target}
		switch id.Target {
		case IdentVariable:
			nid.Variable = varMap[id.Variable]
		case IdentFunction:
			nid.Function = id.Function // shared: method code is not per-class
		}
		g.idents[nid.ID] = nid
		dst.Idents[name] = nid
		identMap[id] = nid
	}

	// Second pass: initializers/constraints may reference sibling variables,
	// so clone expression trees only once every Ident/Variable shell exists.
	for _, v := range src.Variables {
		nv := varMap[v]
		nv.Initializer = g.copyExpr(v.Initializer, identMap, dst)
		nv.TypeConstraint = g.copyExpr(v.TypeConstraint, identMap, dst)
	}

	for _, stmt := range src.Statements {
		g.copyStatement(stmt, dst, identMap)
	}

	return dst
}

func (g *Graph) copyStatement(src *Statement, dstBlock *Block, identMap map[*Ident]*Ident) *Statement {
	ns := g.NewStatement(dstBlock, src.Kind, g.copyExpr(src.Root, identMap, dstBlock), src.Pos)
	ns.Matched = src.Matched
	ns.TransformerName = src.TransformerName
	ns.PrintfRewritten = src.PrintfRewritten

	for _, arg := range src.TransformerArgs {
		ns.TransformerArgs = append(ns.TransformerArgs, g.copyExpr(arg, identMap, dstBlock))
	}
	for _, ct := range src.CaseTypes {
		ns.CaseTypes = append(ns.CaseTypes, g.copyExpr(ct, identMap, dstBlock))
	}

	if src.Sub != nil {
		ns.Sub = g.CopyBlock(src.Sub, src.Sub.OwnerKind)
	}
	for _, c := range src.Cases {
		ns.Cases = append(ns.Cases, g.copyStatement(c, dstBlock, identMap))
	}
	return ns
}

// copyExpr clones an expression tree, re-pointing every IdentExpr at the
// corresponding copied Ident via identMap (falling back to a fresh lookup
// by name in dstScope when the name was not local to the block being
// copied, e.g. an outer-scope reference captured by a nested block).
func (g *Graph) copyExpr(src Expression, identMap map[*Ident]*Ident, dstScope *Block) Expression {
	if src == nil {
		return nil
	}

	pos := src.Pos()
	var out Expression

	switch e := src.(type) {
	case *LiteralExpr:
		c := *e
		out = &c
	case *IdentExpr:
		c := g.NewIdentExpr(e.Name, dstScope, pos)
		if e.Ident != nil {
			if mapped, ok := identMap[e.Ident]; ok {
				c.Ident = mapped
			} else if found, ok := Find(dstScope, e.Name); ok {
				c.Ident = found
			} else {
				c.Ident = e.Ident // outer-scope identity unaffected by the copy
			}
		}
		out = c
	case *CallExpr:
		args := copyExprSlice(g, e.Args, identMap, dstScope)
		c := g.NewCall(g.copyExpr(e.Callee, identMap, dstScope), args, pos)
		c.CallSignature = e.CallSignature
		out = c
	case *DotExpr:
		right := g.copyExpr(e.Right, identMap, dstScope).(*IdentExpr)
		out = g.NewDot(g.copyExpr(e.Left, identMap, dstScope), right, pos)
	case *NamedParamExpr:
		out = g.NewNamedParam(e.Name, g.copyExpr(e.Value, identMap, dstScope), pos)
	case *CastExpr:
		out = g.NewCast(g.copyExpr(e.TargetType, identMap, dstScope), g.copyExpr(e.Value, identMap, dstScope), pos)
	case *SelectExpr:
		out = g.NewSelect(g.copyExpr(e.Cond, identMap, dstScope), g.copyExpr(e.Then, identMap, dstScope), g.copyExpr(e.Else, identMap, dstScope), pos)
	case *SliceExpr:
		out = g.NewSlice(g.copyExpr(e.Receiver, identMap, dstScope), g.copyExpr(e.Lo, identMap, dstScope), g.copyExpr(e.Hi, identMap, dstScope), pos)
	case *IndexExpr:
		out = g.NewIndex(g.copyExpr(e.Receiver, identMap, dstScope), g.copyExpr(e.Index, identMap, dstScope), pos)
	case *NullExpr:
		out = g.NewNull(g.copyExpr(e.TargetType, identMap, dstScope), pos)
	case *ArrayofExpr:
		out = g.NewArrayof(g.copyExpr(e.ElementType, identMap, dstScope), pos)
	case *TypeofExpr:
		out = g.NewTypeof(g.copyExpr(e.Value, identMap, dstScope), pos)
	case *WidthofExpr:
		out = g.NewWidthof(g.copyExpr(e.Value, identMap, dstScope), pos)
	case *IsnullExpr:
		out = g.NewIsnull(g.copyExpr(e.Value, identMap, dstScope), pos)
	case *AggregateExpr:
		out = g.NewAggregate(e.Kind(), copyExprSlice(g, e.Elements, identMap, dstScope), pos)
	case *TemplateInstExpr:
		c := g.NewTemplateInst(g.copyExpr(e.Template, identMap, dstScope), copyExprSlice(g, e.Args, identMap, dstScope), pos)
		c.ResolvedClass = e.ResolvedClass
		out = c
	case *FuncaddrExpr:
		out = g.NewFuncaddr(g.copyExpr(e.Call, identMap, dstScope).(*CallExpr), pos)
	case *AssignExpr:
		out = g.NewAssign(e.Op, g.copyExpr(e.Target, identMap, dstScope), g.copyExpr(e.Value, identMap, dstScope), pos)
	case *ModintExpr:
		out = g.NewModint(g.copyExpr(e.Modulus, identMap, dstScope), g.copyExpr(e.Value, identMap, dstScope), pos)
	case *BinaryExpr:
		out = g.NewBinary(e.Kind(), g.copyExpr(e.Left, identMap, dstScope), g.copyExpr(e.Right, identMap, dstScope), pos)
	case *UnaryExpr:
		out = g.NewUnary(e.Kind(), g.copyExpr(e.Operand, identMap, dstScope), pos)
	default:
		out = src
	}

	return out
}

func copyExprSlice(g *Graph, src []Expression, identMap map[*Ident]*Ident, dstScope *Block) []Expression {
	if src == nil {
		return nil
	}
	out := make([]Expression, len(src))
	for i, e := range src {
		out[i] = g.copyExpr(e, identMap, dstScope)
	}
	return out
}
