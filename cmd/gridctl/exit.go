package main

import (
	"errors"

	"github.com/kasuganosora/datagrid/pkg/api"
	"github.com/kasuganosora/datagrid/pkg/resource/domain"
)

// Exit statuses reported by gridctl.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitFetch   = 3
	exitIO      = 4
)

// exitCode maps a command error onto the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	switch api.GetErrorCode(err) {
	case api.ErrCodeInvalidParam:
		return exitUsage
	case api.ErrCodeFetchFailed, api.ErrCodeTimeout:
		return exitFetch
	case api.ErrCodeUploadFailed, api.ErrCodeExportFailed, api.ErrCodeImportFailed:
		return exitIO
	}

	var (
		cfgErr *domain.ErrInvalidConfig
		colErr *domain.ErrColumnNotFound
		opErr  *domain.ErrIllegalOperator
		pagErr *domain.ErrInvalidPagination
	)
	if errors.As(err, &cfgErr) || errors.As(err, &colErr) || errors.As(err, &opErr) || errors.As(err, &pagErr) {
		return exitUsage
	}
	return exitFailure
}
