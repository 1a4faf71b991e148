package errors

import "net/http"

const (
	CodeInvalidQuery      = "INVALID_QUERY"
	CodeInvalidPagination = "INVALID_PAGINATION"
	CodeRateLimited       = "RATE_LIMITED"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeInternalServer    = "INTERNAL_SERVER_ERROR"
)

// Сообщения отдаются клиенту как есть, фронтенд показывает их пользователю
var (
	ErrInvalidQuery = New(
		CodeInvalidQuery,
		"Serviço, localização ou categoria é obrigatório",
		http.StatusBadRequest,
	)

	ErrInvalidPagination = New(
		CodeInvalidPagination,
		"Parâmetros de paginação inválidos",
		http.StatusBadRequest,
	)

	ErrRateLimited = New(
		CodeRateLimited,
		"Muitas pesquisas. Tente novamente mais tarde.",
		http.StatusTooManyRequests,
	)

	ErrDatabaseError = New(
		CodeDatabaseError,
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrUpstreamFailure = New(
		CodeInternalServer,
		"Erro interno do servidor",
		http.StatusInternalServerError,
	)

	ErrInternalServer = ErrUpstreamFailure
)
