package graph

import "strings"

// Find implements the scope-resolution contract of spec §4.1: walk from
// block up its lexical ancestors to the Root, returning the first Ident
// bound to name.
func Find(block *Block, name string) (*Ident, bool) {
	for b := block; b != nil; b = b.Parent {
		if id, ok := FindInBlock(b, name); ok {
			return id, true
		}
	}
	return nil, false
}

// FindInBlock is the local (non-walking) half of the scope-resolution
// contract, with the two augmentations spec §4.1 calls out:
//
//   - for a Class sub-block it also searches the constructor's template
//     block for Function-kind idents (method inheritance), and
//   - for a Package function sub-block it also searches the canonical
//     sub-module ident named "package".
func FindInBlock(block *Block, name string) (*Ident, bool) {
	if id, ok := block.Idents[name]; ok {
		return id, true
	}

	if block.OwnerKind == BlockOwnerClass && block.OwnerClass != nil {
		tmplBlock := block.OwnerClass.Template.Constructor.Block
		if id, ok := tmplBlock.Idents[name]; ok && id.Target == IdentFunction {
			return id, true
		}
	}

	if block.OwnerKind == BlockOwnerFunction && block.OwnerFunction != nil &&
		block.OwnerFunction.Kind == FuncPackage {
		if pkgIdent, ok := block.Idents["package"]; ok && pkgIdent.Target == IdentFunction &&
			pkgIdent.Function != nil {
			if id, ok := pkgIdent.Function.Block.Idents[name]; ok {
				return id, true
			}
		}
	}

	return nil, false
}

// ScopeResolveClassMethod resolves name inside a Class's sub-block,
// following the Class -> Template method-inheritance augmentation
// (spec §4.1 "scope-resolve an Ident through a class-block into its
// template block for method inheritance").
func ScopeResolveClassMethod(class *Class, name string) (*Ident, bool) {
	return FindInBlock(class.Block, name)
}

// PathResolve resolves a sequence of dotted names starting from block,
// walking Dot-style scope traversal one segment at a time (spec §4.1
// "path-resolve a sequence of dotted names"). Each successful segment must
// resolve to a Variable whose Datatype names a scope block to continue
// into (a Class, Enum, Struct, Module or Package); the final segment's
// Ident is returned.
func PathResolve(block *Block, path string, scopeOf func(*Variable) *Block) (*Ident, bool) {
	segments := strings.Split(path, ".")
	if len(segments) == 0 {
		return nil, false
	}

	cur := block
	var ident *Ident
	for i, seg := range segments {
		id, ok := Find(cur, seg)
		if !ok {
			return nil, false
		}
		ident = id
		if i == len(segments)-1 {
			break
		}
		if id.Target != IdentVariable || id.Variable == nil {
			return nil, false
		}
		next := scopeOf(id.Variable)
		if next == nil {
			return nil, false
		}
		cur = next
	}
	return ident, true
}
