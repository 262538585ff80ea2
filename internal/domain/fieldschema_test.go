package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFieldValue_Text(t *testing.T) {
	v, err := ValidateFieldValue("developer", json.RawMessage(`"  Lumen Forge  "`))
	assert.NoError(t, err)
	assert.Equal(t, "Lumen Forge", v)

	// Required fields cannot be cleared
	_, err = ValidateFieldValue("title", json.RawMessage(`"   "`))
	assert.Error(t, err)

	// Optional text fields can
	v, err = ValidateFieldValue("description", json.RawMessage(`""`))
	assert.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestValidateFieldValue_Date(t *testing.T) {
	v, err := ValidateFieldValue("releaseDate", json.RawMessage(`"2019-03-14"`))
	assert.NoError(t, err)
	assert.Equal(t, "2019-03-14", v)

	_, err = ValidateFieldValue("releaseDate", json.RawMessage(`"14/03/2019"`))
	assert.Error(t, err)

	_, err = ValidateFieldValue("releaseDate", json.RawMessage(`"2019-13-40"`))
	assert.Error(t, err)
}

func TestValidateFieldValue_List(t *testing.T) {
	v, err := ValidateFieldValue("genres", json.RawMessage(`["RPG", " Action ", "", "  "]`))
	assert.NoError(t, err)
	assert.Equal(t, StringArray{"RPG", "Action"}, v)

	_, err = ValidateFieldValue("genres", json.RawMessage(`"RPG"`))
	assert.Error(t, err)
}

func TestValidateFieldValue_Enum(t *testing.T) {
	v, err := ValidateFieldValue("activationType", json.RawMessage(`"SSA"`))
	assert.NoError(t, err)
	assert.Equal(t, ActivationSSA, v)

	_, err = ValidateFieldValue("activationType", json.RawMessage(`"DRM-Free"`))
	assert.Error(t, err)

	_, err = ValidateFieldValue("status", json.RawMessage(`"abandoned"`))
	assert.Error(t, err)
}

func TestValidateFieldValue_URL(t *testing.T) {
	v, err := ValidateFieldValue("storeUrl", json.RawMessage(`"https://store.example.com/game"`))
	assert.NoError(t, err)
	assert.Equal(t, "https://store.example.com/game", v)

	// Empty clears the link
	v, err = ValidateFieldValue("storeUrl", json.RawMessage(`""`))
	assert.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = ValidateFieldValue("storeUrl", json.RawMessage(`"javascript:alert(1)"`))
	assert.Error(t, err)

	_, err = ValidateFieldValue("storeUrl", json.RawMessage(`"not a url"`))
	assert.Error(t, err)
}

func TestValidateFieldValue_UnknownField(t *testing.T) {
	_, err := ValidateFieldValue("price", json.RawMessage(`"9.99"`))
	assert.Error(t, err)
}

func TestCorrectionFields_ColumnsMatchGameFields(t *testing.T) {
	game := &Game{}
	for field := range CorrectionFields {
		_, known := game.FieldValue(field)
		assert.True(t, known, "field %q has a spec but no game accessor", field)
	}
}

func TestMissingRequiredFields(t *testing.T) {
	draft := &GameDraft{Title: "Harbor Tycoon 2"}
	missing := draft.MissingRequiredFields()
	assert.ElementsMatch(t, []string{"releaseDate", "developer", "publisher"}, missing)

	full := &GameDraft{
		Title:       "Harbor Tycoon 2",
		ReleaseDate: "2016-09-02",
		Developer:   "Quayside Studio",
		Publisher:   "Quayside Studio",
	}
	assert.Empty(t, full.MissingRequiredFields())
}
