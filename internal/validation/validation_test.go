package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string `json:"name" validate:"required,max=10"`
	Email    string `json:"email" validate:"required,email"`
	Category string `json:"category" validate:"omitempty,oneof=general support"`
	Limit    int    `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

func TestStruct_Valid(t *testing.T) {
	req := require.New(t)
	errs := Struct(&sampleRequest{Name: "Alice", Email: "a@example.com"})
	req.Nil(errs)
}

func TestStruct_CollectsEveryViolation(t *testing.T) {
	req := require.New(t)

	errs := Struct(&sampleRequest{Email: "not-an-email", Category: "bogus", Limit: 500})
	req.Len(errs, 4)

	byField := map[string]string{}
	for _, fe := range errs {
		byField[fe.Field] = fe.Message
	}
	req.Equal("name is required", byField["name"])
	req.Equal("email must be a valid email address", byField["email"])
	req.Equal("category must be one of: general, support", byField["category"])
	req.Equal("limit must be at most 100", byField["limit"])
}

func TestStruct_UsesJSONFieldNames(t *testing.T) {
	req := require.New(t)

	errs := Struct(&sampleRequest{Name: "way too long for the bound", Email: "a@example.com"})
	req.Len(errs, 1)
	req.Equal("name", errs[0].Field)
	req.Equal("name must be at most 10 characters", errs[0].Message)
}

func TestErrors_Error(t *testing.T) {
	req := require.New(t)
	e := Errors{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email must be a valid email address"},
	}
	req.Equal("name: name is required; email: email must be a valid email address", e.Error())
}
