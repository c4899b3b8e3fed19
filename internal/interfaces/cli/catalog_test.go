package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/internal/domain/catalog"
	"github.com/turtacn/titleorder/internal/domain/validation"
	"github.com/turtacn/titleorder/pkg/errors"
)

func TestCatalogCmd_ListsJurisdictions(t *testing.T) {
	out, err := run(t, Backends{}, "-o", "json", "catalog")
	require.NoError(t, err)

	var list JurisdictionList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, len(catalog.Jurisdictions()))
	assert.Equal(t, "NSW", list[0].Code)
	assert.Positive(t, list[0].Products)
	assert.Equal(t, "ALL", list[len(list)-1].Code)
	assert.Zero(t, list[len(list)-1].Products)
}

func TestCatalogCmd_ProductsByAlias(t *testing.T) {
	out, err := run(t, Backends{}, "-o", "table", "catalog", "new south wales")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[0], "#"))
	assert.Contains(t, lines[2], string(catalog.ProductNSWTitle))
	assert.Contains(t, lines[2], catalog.FieldFolioIdentifier+"*")
}

func TestCatalogCmd_UnknownJurisdiction(t *testing.T) {
	_, err := run(t, Backends{}, "catalog", "XYZ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestValidateCmd_Field(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		invalid bool
		output  string
	}{
		{
			name:    "required by product",
			args:    []string{"--product", "nsw-title", "--field", catalog.FieldFolioIdentifier, "--value", " "},
			invalid: true,
			output:  catalog.FieldFolioIdentifier + ": " + validation.MsgFieldRequired + "\n",
		},
		{
			name:   "explicitly optional",
			args:   []string{"--product", "NSW-TITLE", "--field", catalog.FieldFolioIdentifier, "--required=false"},
			output: "valid\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, Backends{}, append([]string{"validate"}, tt.args...)...)
			if tt.invalid {
				assert.ErrorIs(t, err, errInvalidInput)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.output, out)
		})
	}
}

func TestValidateCmd_UnknownFieldOrProduct(t *testing.T) {
	_, err := run(t, Backends{}, "validate", "--product", "NSW-TITLE", "--field", "Colour")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	_, err = run(t, Backends{}, "validate", "--product", "NOPE", "--field", "x")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnknownProduct))
}

func TestValidateCriteriaCmd(t *testing.T) {
	out, err := run(t, Backends{}, "-o", "json", "validate", "criteria",
		"--product", "NSW-ADDRESS", "--set", catalog.FieldStreetName+"=PITT")
	assert.ErrorIs(t, err, errInvalidInput)

	var res ValidationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Valid)
	assert.Equal(t, map[string]string{catalog.FieldSuburb: validation.MsgFieldRequired}, res.Fields)

	out, err = run(t, Backends{}, "validate", "criteria",
		"--product", "NSW-ADDRESS", "--set", "Street Name=PITT", "--set", "Suburb=SYDNEY")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)
}

func TestParseCriteria(t *testing.T) {
	got, err := parseCriteria([]string{"Street Name=PITT", "Note=a=b", "Empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Street Name": "PITT", "Note": "a=b", "Empty": ""}, got)

	for _, bad := range []string{"novalue", "=x", " =x"} {
		_, err := parseCriteria([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestMatterCmd(t *testing.T) {
	out, err := run(t, Backends{}, "matter", "MAT-001")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = run(t, Backends{}, "matter", "ab")
	assert.ErrorIs(t, err, errInvalidInput)
	assert.Equal(t, "matterReference: "+validation.MsgMatterTooShort+"\n", out)
}
