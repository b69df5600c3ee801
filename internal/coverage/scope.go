package coverage

import "fmt"

// Scope classifies a coverage item by kind and visibility. Values match the
// commentcov plugin protocol.
type Scope int32

const (
	ScopeUnknown Scope = iota
	ScopeFile
	ScopePublicModule
	ScopePrivateModule
	ScopePublicClass
	ScopePrivateClass
	ScopePublicType
	ScopePrivateType
	ScopePublicFunction
	ScopePrivateFunction
	ScopePublicVariable
	ScopePrivateVariable
)

var scopeNames = [...]string{
	ScopeUnknown:         "UNKNOWN",
	ScopeFile:            "FILE",
	ScopePublicModule:    "PUBLIC_MODULE",
	ScopePrivateModule:   "PRIVATE_MODULE",
	ScopePublicClass:     "PUBLIC_CLASS",
	ScopePrivateClass:    "PRIVATE_CLASS",
	ScopePublicType:      "PUBLIC_TYPE",
	ScopePrivateType:     "PRIVATE_TYPE",
	ScopePublicFunction:  "PUBLIC_FUNCTION",
	ScopePrivateFunction: "PRIVATE_FUNCTION",
	ScopePublicVariable:  "PUBLIC_VARIABLE",
	ScopePrivateVariable: "PRIVATE_VARIABLE",
}

// publicScopes maps each private scope to its public counterpart.
var publicScopes = map[Scope]Scope{
	ScopePrivateModule:   ScopePublicModule,
	ScopePrivateClass:    ScopePublicClass,
	ScopePrivateType:     ScopePublicType,
	ScopePrivateFunction: ScopePublicFunction,
	ScopePrivateVariable: ScopePublicVariable,
}

// Scopes lists every scope in protocol order.
func Scopes() []Scope {
	out := make([]Scope, len(scopeNames))
	for i := range scopeNames {
		out[i] = Scope(i)
	}
	return out
}

func (s Scope) String() string {
	if s < 0 || int(s) >= len(scopeNames) {
		return fmt.Sprintf("Scope(%d)", int32(s))
	}
	return scopeNames[s]
}

// Public returns the public counterpart of a private scope. Every other
// scope maps to itself.
func (s Scope) Public() Scope {
	if p, ok := publicScopes[s]; ok {
		return p
	}
	return s
}

// IsPrivate reports whether s has a public counterpart.
func (s Scope) IsPrivate() bool {
	_, ok := publicScopes[s]
	return ok
}

// ParseScope parses a protocol scope name such as "PUBLIC_CLASS".
func ParseScope(name string) (Scope, error) {
	for i, n := range scopeNames {
		if n == name {
			return Scope(i), nil
		}
	}
	return ScopeUnknown, fmt.Errorf("unknown scope %q", name)
}

// MarshalText encodes the scope by name, so JSON and YAML reports read
// like the protocol.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scope name.
func (s *Scope) UnmarshalText(text []byte) error {
	parsed, err := ParseScope(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
