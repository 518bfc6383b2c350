package entities

import "errors"

var (
	ErrPartNotFound      = errors.New("part not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrBOMCycle          = errors.New("bom cycle detected")
	ErrNoComponents      = errors.New("part has no components")
)
