package directory

import (
	"errors"

	directoryerrors "github.com/MichelleArumemi/EmployeeMS/internal/directory/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return directoryerrors.ErrProfileNotFound
	}

	return apperror.FromStore(err)
}
