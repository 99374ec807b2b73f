package leave

import (
	"errors"

	leaveerrors "github.com/MichelleArumemi/EmployeeMS/internal/leave/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	return apperror.FromStore(err)
}
