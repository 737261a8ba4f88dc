package shootservice

import "errors"

// Domain failures returned by the shoot service.
var (
	ErrShootNotFound   = errors.New("shoot not found")
	ErrArrowNotFound   = errors.New("arrow not found")
	ErrExportNotFound  = errors.New("export not found")
	ErrInvalidShoot    = errors.New("invalid shoot")
	ErrInvalidArrows   = errors.New("invalid arrows")
	ErrNoArrows        = errors.New("shoot has no arrows")
	ErrInvalidWorkbook = errors.New("invalid score sheet workbook")
	ErrUnknownRound    = errors.New("unknown round")
)

// IsDomainFailure reports whether err is one of the service's domain failures
// rather than an infrastructure error.
func IsDomainFailure(err error) bool {
	for _, target := range []error{
		ErrShootNotFound, ErrArrowNotFound, ErrExportNotFound, ErrInvalidShoot,
		ErrInvalidArrows, ErrNoArrows, ErrInvalidWorkbook, ErrUnknownRound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
