package logic

import (
	"errors"
	"fmt"

	"github.com/iceprop/prop-lab/internal/models"
)

var (
	ErrMissingField  = errors.New("missing box score field")
	ErrInvalidLine   = errors.New("line must be a positive half point")
	ErrInvalidWindow = errors.New("window must be a positive game count")
	ErrUnknownStat   = errors.New("unknown stat")
	ErrNoData        = errors.New("no data available")
)

// MissingFieldError reports the base stat a game row was missing.
type MissingFieldError struct {
	GameID string
	Stat   models.Stat
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("game %s: %s: %s", e.GameID, ErrMissingField, e.Stat)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
