package handler

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Text  *string `json:"text" binding:"required"`
	Label string  `json:"label,omitempty" binding:"omitempty,max=3"`
}

func TestValidationDetails(t *testing.T) {
	UseJSONFieldNames()

	t.Run("validator errors use JSON field names", func(t *testing.T) {
		err := binding.Validator.ValidateStruct(&sampleInput{Label: "toolong"})
		require.Error(t, err)

		details := ValidationDetails(err)

		require.Len(t, details, 2)
		assert.Equal(t, FieldError{Field: "text", Reason: "field required"}, details[0])
		assert.Equal(t, FieldError{Field: "label", Reason: "failed max validation"}, details[1])
	})

	t.Run("type mismatch", func(t *testing.T) {
		var input sampleInput
		err := json.Unmarshal([]byte(`{"text": 1}`), &input)
		require.Error(t, err)

		details := ValidationDetails(err)

		assert.Equal(t, []FieldError{{Field: "text", Reason: "must be a string"}}, details)
	})

	t.Run("syntax error", func(t *testing.T) {
		var input sampleInput
		err := json.Unmarshal([]byte(`{"text"`), &input)
		require.Error(t, err)

		details := ValidationDetails(err)

		assert.Equal(t, "body", details[0].Field)
		assert.Equal(t, "malformed JSON", details[0].Reason)
	})

	t.Run("empty body", func(t *testing.T) {
		details := ValidationDetails(io.EOF)

		assert.Equal(t, []FieldError{{Field: "body", Reason: "field required"}}, details)
	})

	t.Run("unknown error", func(t *testing.T) {
		details := ValidationDetails(errors.New("invalid request"))

		assert.Equal(t, []FieldError{{Field: "body", Reason: "invalid request"}}, details)
	})
}
