package model

import "errors"

// =====================================================
// ERROR DEFINITIONS
// =====================================================
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrMetaKeyEmpty  = errors.New("metadata key must not be empty")
)
