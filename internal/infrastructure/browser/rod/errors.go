package rod

import (
	"context"
	"errors"
	"fmt"

	"github.com/NORMAL-EX/chrome-control/internal/domain/entity"
)

func navError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", entity.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", entity.ErrNavigation, err)
}

func elementError(selector string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", entity.ErrTimeout, selector)
	}
	return fmt.Errorf("%w: %s: %v", entity.ErrElementNotFound, selector, err)
}
