package server

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }

func TestManageLocalArgsCarryCosmeticFlags(t *testing.T) {
	args := ManageLocalArgs{
		Action:    "update",
		Name:      "Health",
		NewName:   strPtr("HitPoints"),
		Const:     boolPtr(true),
		Reference: boolPtr(false),
		Editable:  boolPtr(true),
	}

	update := args.update()
	require.NotNil(t, update.NewName)
	assert.Equal(t, "HitPoints", *update.NewName)
	require.NotNil(t, update.Const)
	assert.True(t, *update.Const)
	require.NotNil(t, update.Reference)
	assert.False(t, *update.Reference)
	require.NotNil(t, update.Editable)
	assert.True(t, *update.Editable)
	assert.Nil(t, update.NewType)
	assert.Nil(t, update.NewDefault)
}

func TestManageLocalSchemaExposesFlags(t *testing.T) {
	schema, err := jsonschema.For[ManageLocalArgs](nil)
	require.NoError(t, err)

	for _, prop := range []string{"const", "reference", "editable", "new_name", "new_type", "new_default"} {
		_, ok := schema.Properties[prop]
		assert.True(t, ok, "schema should expose %q", prop)
	}
}

func TestManageParameterArgsCarryUpdate(t *testing.T) {
	args := ManageParameterArgs{
		Action:   "update",
		Name:     "Amount",
		NewType:  strPtr("double"),
		Editable: boolPtr(false),
	}

	update := args.update()
	require.NotNil(t, update.NewType)
	assert.Equal(t, "double", *update.NewType)
	require.NotNil(t, update.Editable)
	assert.False(t, *update.Editable)
	assert.Nil(t, update.Const)
}
