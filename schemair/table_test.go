package schemair_test

import (
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschmidtnz/schemair/schemair"
)

func findColumn(cols []*schemair.Column, name string) *schemair.Column {
	for _, c := range cols {
		if c.Name == name {
			return c
		}
	}

	return nil
}

func TestConvertTableSchemaAtomMappings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		schema *jsonschema.Schema
		want   string
	}{
		"boolean":  {&jsonschema.Schema{Type: "boolean"}, "BOOL"},
		"integer":  {&jsonschema.Schema{Type: "integer"}, "INT64"},
		"number":   {&jsonschema.Schema{Type: "number"}, "FLOAT64"},
		"string":   {&jsonschema.Schema{Type: "string"}, "STRING"},
		"datetime": {&jsonschema.Schema{Type: "string", Format: "date-time"}, "TIMESTAMP"},
		"bytes":    {&jsonschema.Schema{Type: "string", Format: "bytes"}, "BYTES"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cols, err := schemair.ConvertTableSchema(tc.schema, schemair.NewContext())
			require.NoError(t, err)
			require.Len(t, cols, 1)
			assert.Equal(t, "root", cols[0].Name)
			assert.Equal(t, tc.want, cols[0].Type)
			assert.Equal(t, "REQUIRED", cols[0].Mode)
		})
	}
}

func TestConvertTableSchemaRootObjectUnwrapsToColumnList(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":  {Type: "string"},
			"age": {Type: "integer"},
		},
		Required: []string{"id"},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 2)

	id := findColumn(cols, "id")
	require.NotNil(t, id)
	assert.Equal(t, "STRING", id.Type)
	assert.Equal(t, "REQUIRED", id.Mode)

	age := findColumn(cols, "age")
	require.NotNil(t, age)
	assert.Equal(t, "INT64", age.Type)
	assert.Equal(t, "NULLABLE", age.Mode)
}

func TestConvertTableSchemaNonObjectRootWrapsAsRootColumn(t *testing.T) {
	t.Parallel()

	cols, err := schemair.ConvertTableSchema(&jsonschema.Schema{Type: "string"}, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "root", cols[0].Name)
}

func TestConvertTableSchemaArrayIsRepeated(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"tags": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
		Required: []string{"tags"},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)

	tags := findColumn(cols, "tags")
	require.NotNil(t, tags)
	assert.Equal(t, "REPEATED", tags.Mode)
	assert.Equal(t, "STRING", tags.Type)
	assert.Empty(t, tags.Fields)
}

func TestConvertTableSchemaArrayOfObjectsInlinesRecordAsRepeated(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {Type: "string"},
			},
			Required: []string{"id"},
		},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "REPEATED", cols[0].Mode)
	assert.Equal(t, "RECORD", cols[0].Type)
	require.Len(t, cols[0].Fields, 1)
	assert.Equal(t, "id", cols[0].Fields[0].Name)
}

func TestConvertTableSchemaArrayOfArrayWrapsListRecord(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "integer"}},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "REPEATED", cols[0].Mode)
	assert.Equal(t, "RECORD", cols[0].Type)
	require.Len(t, cols[0].Fields, 1)
	assert.Equal(t, "list", cols[0].Fields[0].Name)
	assert.Equal(t, "REPEATED", cols[0].Fields[0].Mode)
	assert.Equal(t, "INT64", cols[0].Fields[0].Type)
}

func TestConvertTableSchemaMapLowersToKeyValueRecord(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: &jsonschema.Schema{Type: "string"},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "REPEATED", cols[0].Mode)
	assert.Equal(t, "RECORD", cols[0].Type)
	require.Len(t, cols[0].Fields, 2)
	assert.Equal(t, "key", cols[0].Fields[0].Name)
	assert.Equal(t, "STRING", cols[0].Fields[0].Type)
	assert.Equal(t, "REQUIRED", cols[0].Fields[0].Mode)
	assert.Equal(t, "value", cols[0].Fields[1].Name)
	assert.Equal(t, "STRING", cols[0].Fields[1].Type)
}

func TestConvertTableSchemaMapWithoutValueAllowed(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type:                 "object",
		Description:          "a map of flags",
		AdditionalProperties: &jsonschema.Schema{Type: "object"}, // empty object value, dropped
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext(
		schemair.WithResolveMethod(schemair.ResolveDrop),
		schemair.WithAllowMapsWithoutValue(true),
	))
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Fields, 1)
	assert.Equal(t, "key", cols[0].Fields[0].Name)
	assert.Equal(t, "a map of flags", cols[0].Description)
}

func TestConvertTableSchemaMapWithoutValueDisallowedErrors(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type:                 "object",
		AdditionalProperties: &jsonschema.Schema{Type: "object"},
	}

	_, err := schemair.ConvertTableSchema(s, schemair.NewContext(schemair.WithResolveMethod(schemair.ResolveDrop)))
	require.ErrorIs(t, err, schemair.ErrMapValueDropped)
}

func TestConvertTableSchemaDescriptionCombinesTitleAndDescription(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{Type: "string", Title: "Name", Description: "A person's name"}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "Name - A person's name", cols[0].Description)
}

func TestConvertTableSchemaDescriptionTruncatedTo1024Runes(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 2000)
	s := &jsonschema.Schema{Type: "string", Description: long}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Len(t, cols[0].Description, 1024)
}

func TestConvertTableSchemaTupleBuildsPositionalRecord(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "array",
		PrefixItems: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "integer"},
		},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext(schemair.WithTupleStruct(true)))
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "RECORD", cols[0].Type)
	require.Len(t, cols[0].Fields, 2)
	assert.Equal(t, "f0_", cols[0].Fields[0].Name)
	assert.Equal(t, "f1_", cols[0].Fields[1].Name)
}

func TestConvertTableSchemaEmptyObjectCastsToString(t *testing.T) {
	t.Parallel()

	cols, err := schemair.ConvertTableSchema(&jsonschema.Schema{Type: "object"}, schemair.NewContext())
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "STRING", cols[0].Type)
}

func TestConvertTableSchemaNestedObjectFieldDropIsElided(t *testing.T) {
	t.Parallel()

	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"id":      {Type: "string"},
			"details": {Type: "object"},
		},
		Required: []string{"id"},
	}

	cols, err := schemair.ConvertTableSchema(s, schemair.NewContext(schemair.WithResolveMethod(schemair.ResolveDrop)))
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "id", cols[0].Name)
}
