package service

import (
	"github.com/dukerupert/vitrine/internal/domain"
)

// Request errors - use domain.EINVALID
var (
	ErrMissingHandle = domain.Errorf(domain.EINVALID, "", "Product handle is required")
)
