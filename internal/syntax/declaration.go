package syntax

// Kind is the closed set of declaration kinds the coverage visitor handles.
type Kind int

const (
	KindOther Kind = iota
	KindClass
	KindEnum
	KindFunction
	KindInterface
	KindMethod
	KindModule
	KindVariable
	KindReExport
)

var kindNames = [...]string{
	KindOther:     "other",
	KindClass:     "class",
	KindEnum:      "enum",
	KindFunction:  "function",
	KindInterface: "interface",
	KindMethod:    "method",
	KindModule:    "module",
	KindVariable:  "variable",
	KindReExport:  "re-export",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "other"
	}
	return kindNames[k]
}

// Declaration is a statement or class member reduced to what coverage needs.
// Offsets are bytes into File.Source.
type Declaration struct {
	Kind Kind

	// Name is the declared identifier. Variable statements join their
	// binding names with ","; destructuring patterns contribute "".
	Name string

	// Exported is set when the declaration carries an export modifier.
	Exported bool

	// FullStart is the end of the previous token, so the leading trivia
	// of the declaration lies in [FullStart, Start).
	FullStart int
	Start     int
	End       int

	// Members holds the methods of a class.
	Members []Declaration

	// Specifiers holds the names of a re-export clause.
	Specifiers []ExportSpecifier
}

// ExportSpecifier is one element of `export { ... }`. For `export { a as b }`
// PropertyName is "a" and Name is "b"; without an alias PropertyName is
// empty and Name is the exported local.
type ExportSpecifier struct {
	PropertyName string
	Name         string
}
