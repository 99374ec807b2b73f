package notificationerrors

import (
	"net/http"

	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
)

var (
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
	ErrRecipientRequired = apperror.New(
		apperror.CodeInvalidInput,
		"at least one recipient is required",
		http.StatusBadRequest,
	)
	ErrInvalidRecipientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid recipient id",
		http.StatusBadRequest,
	)
	ErrTitleRequired = apperror.New(
		apperror.CodeInvalidInput,
		"title is required",
		http.StatusBadRequest,
	)
	ErrMessageRequired = apperror.New(
		apperror.CodeInvalidInput,
		"message is required",
		http.StatusBadRequest,
	)
	ErrInvalidRelatedEntityID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid related entity id",
		http.StatusBadRequest,
	)
	ErrRecipientNotFound = apperror.New(
		apperror.CodeNotFound,
		"one or more recipients not found",
		http.StatusNotFound,
	)
)
