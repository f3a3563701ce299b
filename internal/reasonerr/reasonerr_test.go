package reasonerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsSatisfyErrorInterface(t *testing.T) {
	var errs = []error{
		&ParseError{Line: 3, Col: 5, Msg: "unexpected token"},
		&InvalidGoal{Reason: "empty"},
		&UnknownOperator{Op: "FOO"},
		&ConfigError{Msg: "bad hdc strategy"},
	}
	for _, e := range errs {
		assert.NotEmpty(t, e.Error())
	}
}

func TestErrorsAsDiscriminatesKind(t *testing.T) {
	var err error = &ConfigError{Msg: "bad geometry"}
	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "bad geometry", cfgErr.Msg)

	var invalidGoal *InvalidGoal
	assert.False(t, errors.As(err, &invalidGoal))
}
