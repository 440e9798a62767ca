package service

import (
	"errors"

	"github.com/go-portal/portal/pkg/apperr"
	"gorm.io/gorm"
)

/**
 * @file: service.go
 * @description: helpers shared by the domain services
 */

// notFoundOr maps a missing-row read to a NotFound error. Any other
// repo failure passes through untyped and surfaces as an internal
// error at the router.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(msg)
	}
	return err
}
