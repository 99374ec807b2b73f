package notification

import (
	"errors"

	notificationerrors "github.com/MichelleArumemi/EmployeeMS/internal/notification/errors"
	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notificationerrors.ErrNotificationNotFound
	}

	return apperror.FromStore(err)
}
