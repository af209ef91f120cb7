package service

import (
	"strings"

	"github.com/google/uuid"

	"cashonrails-backend/internal/domains/payment/model"
)

// NewReference returns a fresh payment reference, e.g. CR-3f2b9c0e4d1a4b6f8e7d6c5b4a392817.
func NewReference() string {
	return model.ReferencePrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
