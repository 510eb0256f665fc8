package favorite

import "errors"

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrAlreadyFavorite  = errors.New("already in favorites")
	ErrInvalidKind      = errors.New("favorite kind must be product or event")
)
