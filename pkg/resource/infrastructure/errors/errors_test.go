package infrastructure

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/kasuganosora/datagrid/pkg/resource/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrFileNotFound(t *testing.T) {
	err := NewErrFileNotFound("/data/reports.csv", "csv")
	assert.Equal(t, "csv file not found: /data/reports.csv", err.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestErrUnsupportedFormat(t *testing.T) {
	err := NewErrUnsupportedFormat("out.txt", ".txt", ".xlsx", ".csv")
	assert.Equal(t, `unsupported file format ".txt" for out.txt, expected one of .xlsx, .csv`, err.Error())
}

func TestWrapOpenError(t *testing.T) {
	assert.NoError(t, WrapOpenError(nil, "a.csv", "csv"))

	path := filepath.Join(t.TempDir(), "nope.csv")
	_, openErr := os.Open(path)

	var notFound *ErrFileNotFound
	err := WrapOpenError(openErr, path, "csv")
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.FilePath)

	var connErr *domain.ErrConnectionFailed
	err = WrapOpenError(errors.New("zip: not a valid zip file"), "a.xlsx", "excel")
	assert.ErrorAs(t, err, &connErr)
	assert.Equal(t, "excel", connErr.DataSourceType)
}
