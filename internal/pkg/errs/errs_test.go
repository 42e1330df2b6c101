package errs_test

import (
	"errors"
	"testing"

	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("jobId", "123")

		assert.Equal(t, "jobId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("jobId", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: jobId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})

	t.Run("Error with non string IDs", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("workerId", 456)
		assert.Equal(t, "object not found: 456", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("code")

		assert.Equal(t, "code", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: code", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("must contain digits only")
		err := errs.NewValueIsInvalidErrorWithCause("code", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: code (cause: must contain digits only)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)

		assert.Equal(t, "latitude", err.ParamName)
		assert.InEpsilon(t, 91.5, err.Value, 1e-9)
		assert.Equal(t, -90, err.Min)
		assert.Equal(t, 90, err.Max)
		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("quantity", -5, 1, 1000, cause)

		assert.Equal(t,
			"value is invalid: -5 is quantity, min value is 1, max value is 1000 (cause: validation failed)",
			err.Error())
	})

	t.Run("sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("name", "copper\npipe", 0, 10)
		assert.Contains(t, err.Error(), "copper pipe")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("evidence")
	assert.Equal(t, "value is required: evidence", err.Error())
	assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())

	withCause := errs.NewValueIsRequiredErrorWithCause("evidence", errors.New("empty list"))
	assert.Equal(t, "value is required: evidence (cause: empty list)", withCause.Error())
}

func TestVersionIsInvalidError(t *testing.T) {
	err := errs.NewVersionIsInvalidError("job")
	assert.Equal(t, "version is invalid: job", err.Error())

	cause := errors.New("expected version 3")
	withCause := errs.NewVersionIsInvalidErrorWithCause("job", cause)
	assert.Equal(t, "version is invalid: job (cause: expected version 3)", withCause.Error())
	assert.Equal(t, errs.ErrVersionIsInvalid, withCause.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("jobId", "1"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("code"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lat", 100, -90, 90), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewValueIsRequiredError("reason"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewVersionIsInvalidError("job"), errs.ErrVersionIsInvalid)

	var target *errs.ObjectNotFoundError
	wrapped := errors.Join(errors.New("load failed"), errs.NewObjectNotFoundError("jobId", "42"))
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "42", target.ID)
}
