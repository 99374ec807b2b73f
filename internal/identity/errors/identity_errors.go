package identityerrors

import (
	"net/http"

	"github.com/MichelleArumemi/EmployeeMS/internal/shared/apperror"
)

var (
	ErrTokenNotFound = apperror.New(
		apperror.CodeUnauthorized,
		"token not found",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"token expired",
		http.StatusUnauthorized,
	)
	ErrUnauthenticated = apperror.New(
		apperror.CodeUnauthorized,
		"authentication is required",
		http.StatusUnauthorized,
	)
	ErrUnknownSubject = apperror.New(
		apperror.CodeUnauthorized,
		"submitter is not a known identity",
		http.StatusUnauthorized,
	)
)
