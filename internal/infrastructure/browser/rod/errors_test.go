package rod

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

func TestNavError(t *testing.T) {
	assert.NoError(t, navError(nil))

	err := navError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, entity.ErrTimeout)

	err = navError(errors.New("net::ERR_NAME_NOT_RESOLVED"))
	assert.ErrorIs(t, err, entity.ErrNavigation)
	assert.Contains(t, err.Error(), "ERR_NAME_NOT_RESOLVED")
}

func TestElementError(t *testing.T) {
	err := elementError("#missing", context.DeadlineExceeded)
	require.ErrorIs(t, err, entity.ErrTimeout)
	assert.Contains(t, err.Error(), "#missing")

	err = elementError("//div[@id='x']", errors.New("cannot find element"))
	require.ErrorIs(t, err, entity.ErrElementNotFound)
	assert.Contains(t, err.Error(), "//div[@id='x']")
}
