package typedesc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/graphforge/internal/fault"
)

// stubRefs resolves a fixed set of struct/enum names.
type stubRefs struct {
	known map[string]bool
}

func (s *stubRefs) HasReference(kind RefKind, name string) bool {
	return s.known[string(kind)+":"+name]
}

func testParser() *Parser {
	refs := &stubRefs{known: map[string]bool{
		"struct:Vector":   true,
		"struct:Rotator":  true,
		"enum:Visibility": true,
		"class:Actor":     true,
		"object:Actor":    true,
	}}
	aliases := map[string]Descriptor{
		"vector":  Reference(RefStruct, "Vector"),
		"rotator": Reference(RefStruct, "Rotator"),
	}
	return NewParser(refs, aliases)
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		expected   Descriptor
		expectKind fault.Kind
	}{
		{
			name:     "scalar keyword",
			input:    "int",
			expected: ScalarOf(Int),
		},
		{
			name:     "scalar keyword is case-insensitive",
			input:    "FLOAT",
			expected: ScalarOf(Float),
		},
		{
			name:     "builtin value-struct shorthand",
			input:    "vector",
			expected: Reference(RefStruct, "Vector"),
		},
		{
			name:     "qualified struct reference",
			input:    "struct:Vector",
			expected: Reference(RefStruct, "Vector"),
		},
		{
			name:     "reference name keeps its case",
			input:    "STRUCT:Vector",
			expected: Reference(RefStruct, "Vector"),
		},
		{
			name:     "array of scalar",
			input:    "array<string>",
			expected: ArrayOf(ScalarOf(String)),
		},
		{
			name:     "set of enum reference",
			input:    "set<enum:Visibility>",
			expected: SetOf(Reference(RefEnum, "Visibility")),
		},
		{
			name:     "nested map does not split on inner comma",
			input:    "map<string,map<int,bool>>",
			expected: MapOf(ScalarOf(String), MapOf(ScalarOf(Int), ScalarOf(Bool))),
		},
		{
			name:     "spec scenario map of int to array of struct",
			input:    "map<int,array<struct:Vector>>",
			expected: MapOf(ScalarOf(Int), ArrayOf(Reference(RefStruct, "Vector"))),
		},
		{
			name:       "unknown keyword",
			input:      "quaternion",
			expectKind: fault.ParseError,
		},
		{
			name:       "empty input",
			input:      "   ",
			expectKind: fault.ParseError,
		},
		{
			name:       "container missing closing bracket",
			input:      "array<int",
			expectKind: fault.ParseError,
		},
		{
			name:       "map missing value",
			input:      "map<int>",
			expectKind: fault.ParseError,
		},
		{
			name:       "map with two top-level commas",
			input:      "map<int,bool,string>",
			expectKind: fault.ParseError,
		},
		{
			name:       "unknown reference kind",
			input:      "delegate:OnHit",
			expectKind: fault.ParseError,
		},
		{
			name:       "reference missing name",
			input:      "struct:",
			expectKind: fault.ParseError,
		},
		{
			name:       "well-formed reference to unknown type",
			input:      "struct:Matrix",
			expectKind: fault.TypeNotFound,
		},
		{
			name:       "unknown type nested in container",
			input:      "array<struct:Matrix>",
			expectKind: fault.TypeNotFound,
		},
	}

	parser := testParser()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := parser.Parse(context.Background(), tc.input)
			if tc.expectKind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectKind, fault.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(desc), "expected %s, got %s", tc.expected, desc)
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	descriptors := []Descriptor{
		ScalarOf(Bool),
		ScalarOf(Int64),
		ScalarOf(Text),
		ScalarOf(Exec),
		ScalarOf(Wildcard),
		Reference(RefStruct, "Vector"),
		Reference(RefClass, "Actor"),
		Reference(RefEnum, "Visibility"),
		ArrayOf(ScalarOf(Float)),
		SetOf(Reference(RefObject, "Actor")),
		MapOf(ScalarOf(String), ArrayOf(Reference(RefStruct, "Vector"))),
		MapOf(ScalarOf(Int), MapOf(ScalarOf(Name), ScalarOf(Double))),
	}

	parser := testParser()
	for _, desc := range descriptors {
		t.Run(desc.String(), func(t *testing.T) {
			reparsed, err := parser.Parse(context.Background(), desc.String())
			require.NoError(t, err)
			assert.True(t, desc.Equal(reparsed), "round trip changed %s into %s", desc, reparsed)
		})
	}
}

func TestParseNeverMutatesInput(t *testing.T) {
	parser := testParser()
	// A failed parse must be purely local: the same parser keeps working.
	_, err := parser.Parse(context.Background(), "map<int,")
	require.Error(t, err)

	desc, err := parser.Parse(context.Background(), "map<int,bool>")
	require.NoError(t, err)
	assert.Equal(t, "map<int,bool>", desc.String())
}
