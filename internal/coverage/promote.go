package coverage

import "github.com/mvp-joe/commentcov-typescript/internal/syntax"

// Promote makes public the items named by aliased export specifiers, as in
// `export { a as b }`. The first item whose identifier equals the property
// name is promoted; specifiers without an alias and unknown names are
// ignored.
func Promote(items []Item, specs []syntax.ExportSpecifier) {
	for _, spec := range specs {
		if spec.PropertyName == "" {
			continue
		}
		if i := FindByIdentifier(items, spec.PropertyName); i >= 0 {
			items[i].Scope = items[i].Scope.Public()
		}
	}
}

// FindByIdentifier returns the index of the first item with the given
// identifier, or -1.
func FindByIdentifier(items []Item, identifier string) int {
	for i := range items {
		if items[i].Identifier == identifier {
			return i
		}
	}
	return -1
}
