package coverage

import (
	"path/filepath"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// Visit returns the coverage items of a file in declaration order. A class
// is followed directly by its methods. Re-export clauses promote the
// matching items created before them.
func Visit(f *syntax.File) []Item {
	v := &visitor{
		file:      f,
		path:      absPath(f.Path),
		extension: Extension(f.Path),
		items:     []Item{},
	}
	for _, d := range f.Declarations {
		v.visit(d)
	}
	return v.items
}

type visitor struct {
	file      *syntax.File
	path      string
	extension string
	items     []Item
}

func (v *visitor) visit(d syntax.Declaration) {
	switch d.Kind {
	case syntax.KindClass:
		v.add(d, ScopePublicClass, ScopePrivateClass)
		for _, m := range d.Members {
			v.visit(m)
		}
	case syntax.KindEnum:
		v.add(d, ScopePublicVariable, ScopePrivateVariable)
	case syntax.KindFunction:
		v.add(d, ScopePublicFunction, ScopePrivateFunction)
	case syntax.KindInterface:
		v.add(d, ScopePublicClass, ScopePrivateClass)
	case syntax.KindMethod:
		v.add(d, ScopePublicFunction, ScopePrivateFunction)
	case syntax.KindModule:
		// Module bodies are not descended into.
		v.add(d, ScopePublicModule, ScopePrivateModule)
	case syntax.KindVariable:
		v.add(d, ScopePublicVariable, ScopePrivateVariable)
	case syntax.KindReExport:
		Promote(v.items, d.Specifiers)
	case syntax.KindOther:
	}
}

func (v *visitor) add(d syntax.Declaration, public, private Scope) {
	scope := private
	if d.Exported {
		scope = public
	}

	header := HeaderComments(v.file, d)
	inline := InlineComments(v.file, d)

	v.items = append(v.items, Item{
		Scope:          scope,
		TargetRange:    DeclarationRange(v.file, d),
		File:           v.path,
		Identifier:     d.Name,
		Extension:      v.extension,
		HeaderComments: header,
		InlineComments: Difference(inline, header),
	})
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
