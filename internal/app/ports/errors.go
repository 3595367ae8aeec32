package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrTemplateMissing marks a data-integrity failure: a referenced
	// trap/item/monster template does not exist. The specific operation
	// fails and logs; the turn keeps going.
	ErrTemplateMissing = errors.New("template missing")
)
