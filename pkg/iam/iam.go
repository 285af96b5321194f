package iam

import (
	"net/http"

	"github.com/Abraxas-365/careerpath/pkg/errx"
)

// ============================================================================
// Shared IAM Errors
// ============================================================================

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthorized = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Autenticación requerida")
	CodeForbidden    = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Permisos insuficientes")
	CodeInactiveUser = ErrRegistry.Register("INACTIVE_USER", errx.TypeAuthorization, http.StatusForbidden, "Usuario desactivado")
)

func ErrUnauthorized() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized)
}

func ErrForbidden() *errx.Error {
	return ErrRegistry.New(CodeForbidden)
}

func ErrInactiveUser() *errx.Error {
	return ErrRegistry.New(CodeInactiveUser)
}
