package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneStillMatchesSentinel(t *testing.T) {
	err := Clone(ErrDuplicateEntry, "response already recorded for 2023-24")

	assert.True(t, errors.Is(err, ErrDuplicateEntry))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "response already recorded for 2023-24", err.Error())
	assert.Equal(t, "an entry already exists for this key", ErrDuplicateEntry.Message)
}

func TestFromErrorNormalises(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", Clone(ErrReferenceDataMissing, "no IIQA form"))
	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "REFERENCE_DATA_MISSING", appErr.Code)

	internal := FromError(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Contains(t, internal.Error(), "boom")

	assert.Nil(t, FromError(nil))
}

func TestInvalidAndField(t *testing.T) {
	cause := errors.New("strconv: bad digit")
	err := Invalid(cause, "invalid response payload").WithField("year")

	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, "year", err.Field)
	assert.ErrorIs(t, err, cause)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusOf(nil))
	assert.Equal(t, http.StatusNotFound, StatusOf(ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("x")))
}
