package validator_test

import (
	"net/http"
	"strings"
	"testing"
	"tably/shared/failure"
	"tably/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Guests int    `json:"guests" validate:"omitempty,min=1"`
}

func TestValidate_DecodesValidBody(t *testing.T) {
	body := strings.NewReader(`{"name":"Table for two","email":"guest@example.com","guests":2}`)

	req := sampleRequest{}
	err := validator.Validate(body, &req)

	require.NoError(t, err)
	assert.Equal(t, "Table for two", req.Name)
	assert.Equal(t, "guest@example.com", req.Email)
	assert.Equal(t, 2, req.Guests)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	body := strings.NewReader(`{"email":"guest@example.com"}`)

	req := sampleRequest{}
	err := validator.Validate(body, &req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "Name is required")
}

func TestValidate_MalformedJSON(t *testing.T) {
	body := strings.NewReader(`{"name":`)

	req := sampleRequest{}
	err := validator.Validate(body, &req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestValidateStruct(t *testing.T) {
	req := sampleRequest{Name: "n", Email: "not-an-email"}

	err := validator.ValidateStruct(&req)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("guest@example.com", "required,email"))
	assert.Error(t, validator.ValidateVar("", "required"))
	assert.Error(t, validator.ValidateVar(0, "min=1"))
}
