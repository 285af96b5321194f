package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// ============================================================================
// Error Types
// ============================================================================

// Type clasifica los errores por su naturaleza
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

func defaultStatus(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================================
// Error
// ============================================================================

// Error es el error enriquecido que viaja por todas las capas
type Error struct {
	Type       Type           `json:"type"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"status"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega un detalle al error (chainable)
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithError adjunta el error subyacente
func (e *Error) WithError(err error) *Error {
	e.Err = err
	return e
}

// New crea un error sin registro previo
func New(message string, t Type) *Error {
	return &Error{
		Type:       t,
		Code:       string(t),
		Message:    message,
		HTTPStatus: defaultStatus(t),
	}
}

// Wrap envuelve un error existente con contexto
func Wrap(err error, message string, t Type) *Error {
	return &Error{
		Type:       t,
		Code:       string(t),
		Message:    message,
		HTTPStatus: defaultStatus(t),
		Err:        err,
	}
}

// IsType verifica si un error (o su cadena) es de un tipo dado
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// ============================================================================
// Registry - códigos de error por módulo
// ============================================================================

// Code identifica un error registrado dentro de un Registry
type Code string

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry agrupa los errores de un módulo bajo un prefijo común
type Registry struct {
	prefix string
	codes  map[Code]definition
}

// NewRegistry crea un registro de errores con el prefijo dado (ej. "PROCESS")
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		codes:  make(map[Code]definition),
	}
}

// Register registra un código de error y retorna su identificador
func (r *Registry) Register(code string, t Type, httpStatus int, message string) Code {
	full := Code(r.prefix + "_" + code)
	r.codes[full] = definition{
		errType:    t,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New construye un *Error a partir de un código registrado
func (r *Registry) New(code Code) *Error {
	def, ok := r.codes[code]
	if !ok {
		return &Error{
			Type:       TypeInternal,
			Code:       string(code),
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Type:       def.errType,
		Code:       string(code),
		Message:    def.message,
		HTTPStatus: def.httpStatus,
	}
}

// NewWithMessage construye un *Error registrado con un mensaje alternativo
func (r *Registry) NewWithMessage(code Code, message string) *Error {
	e := r.New(code)
	e.Message = message
	return e
}
