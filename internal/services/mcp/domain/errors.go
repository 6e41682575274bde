package domain

import (
	"errors"
	"fmt"

	apperrors "github.com/mechforge/mechforge/internal/platform/errors"
	"github.com/mechforge/mechforge/internal/platform/errors/i18n"
)

// toolError shapes a domain error for the MCP client. Coded errors
// render their catalog message so agents see the operator-facing text
// instead of internal wording; anything else wraps unchanged.
func toolError(op string, err error) error {
	var derr *apperrors.Error
	if errors.As(err, &derr) {
		msg := i18n.GetCatalog(i18n.BaseLocale).Format(string(derr.Code), derr.Metadata)
		return fmt.Errorf("%s: %s", op, msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}
