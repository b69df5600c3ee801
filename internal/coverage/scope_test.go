package coverage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/commentcov-typescript/internal/syntax"
)

// Test Plan for Scope and Promote:
// - String names follow the protocol
// - Public maps PRIVATE_X to PUBLIC_X and leaves the rest alone
// - ParseScope accepts every name and rejects unknown ones
// - Scopes encode by name in JSON
// - Promote picks the first matching identifier
// - FindByIdentifier returns -1 for unknown identifiers

func TestScope_String(t *testing.T) {
	t.Parallel()

	want := []string{
		"UNKNOWN", "FILE",
		"PUBLIC_MODULE", "PRIVATE_MODULE",
		"PUBLIC_CLASS", "PRIVATE_CLASS",
		"PUBLIC_TYPE", "PRIVATE_TYPE",
		"PUBLIC_FUNCTION", "PRIVATE_FUNCTION",
		"PUBLIC_VARIABLE", "PRIVATE_VARIABLE",
	}
	for i, s := range Scopes() {
		assert.Equal(t, want[i], s.String())
		assert.Equal(t, int32(i), int32(s))
	}
	assert.Equal(t, "Scope(42)", Scope(42).String())
}

func TestScope_Public(t *testing.T) {
	t.Parallel()

	tests := map[Scope]Scope{
		ScopeUnknown:         ScopeUnknown,
		ScopeFile:            ScopeFile,
		ScopePublicModule:    ScopePublicModule,
		ScopePrivateModule:   ScopePublicModule,
		ScopePublicClass:     ScopePublicClass,
		ScopePrivateClass:    ScopePublicClass,
		ScopePublicType:      ScopePublicType,
		ScopePrivateType:     ScopePublicType,
		ScopePublicFunction:  ScopePublicFunction,
		ScopePrivateFunction: ScopePublicFunction,
		ScopePublicVariable:  ScopePublicVariable,
		ScopePrivateVariable: ScopePublicVariable,
	}
	for in, want := range tests {
		assert.Equal(t, want, in.Public(), in.String())
		assert.Equal(t, in != want, in.IsPrivate(), in.String())
	}
}

func TestParseScope(t *testing.T) {
	t.Parallel()

	for _, s := range Scopes() {
		parsed, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseScope("PROTECTED_CLASS")
	assert.Error(t, err)
}

func TestScope_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Item{Scope: ScopePrivateClass})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scope":"PRIVATE_CLASS"`)

	var it Item
	require.NoError(t, json.Unmarshal(data, &it))
	assert.Equal(t, ScopePrivateClass, it.Scope)
}

func TestPromote_FirstMatchWins(t *testing.T) {
	t.Parallel()

	items := []Item{
		{Identifier: "A", Scope: ScopePrivateVariable},
		{Identifier: "A", Scope: ScopePrivateClass},
		{Identifier: "B", Scope: ScopePrivateFunction},
	}

	// Test: only the first item named A is promoted, regardless of kind
	Promote(items, []syntax.ExportSpecifier{{PropertyName: "A", Name: "X"}})
	assert.Equal(t, ScopePublicVariable, items[0].Scope)
	assert.Equal(t, ScopePrivateClass, items[1].Scope)
	assert.Equal(t, ScopePrivateFunction, items[2].Scope)

	// Test: promoting an already public item is a no-op
	Promote(items, []syntax.ExportSpecifier{{PropertyName: "A", Name: "Y"}})
	assert.Equal(t, ScopePublicVariable, items[0].Scope)
}

func TestFindByIdentifier(t *testing.T) {
	t.Parallel()

	items := []Item{{Identifier: "A"}, {Identifier: "B"}}
	assert.Equal(t, 0, FindByIdentifier(items, "A"))
	assert.Equal(t, 1, FindByIdentifier(items, "B"))
	assert.Equal(t, -1, FindByIdentifier(items, "C"))
}
