// errors стандартизирует ошибки HTTP-контракта виджета в обе стороны:
//   - на стороне сервера ToHTTP/WriteError превращают доменную ошибку в статус
//     и конверт {"error":{code,message,request_id}};
//   - на стороне клиента FromResponse разбирает конверт обратно в *Error,
//     который оборачивает один из сентинелов ниже (errors.Is работает по ним).
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

var (
	ErrInvalidArgument = stderrors.New("invalid argument")
	ErrUnauthorized    = stderrors.New("unauthenticated")
	ErrForbidden       = stderrors.New("permission denied")
	ErrNotFound        = stderrors.New("not found")
	ErrConflict        = stderrors.New("already exists")
	ErrUnavailable     = stderrors.New("service unavailable")
	ErrInternal        = stderrors.New("internal error")
)

// APIError - единый формат ошибки в теле ответа.
// Code - короткий стабильный код для машиночитаемой обработки.
// Message - безопасное человекочитаемое описание.
// RequestID - прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error - разобранный ответ об ошибке на стороне клиента.
type Error struct {
	Status    int
	Code      string
	Message   string
	RequestID string
	kind      error
}

func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("api: %d %s: %s (request_id=%s)", e.Status, e.Code, e.Message, e.RequestID)
	}

	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap возвращает сентинел категории ошибки.
func (e *Error) Unwrap() error { return e.kind }

// ToHTTP конвертирует доменную ошибку в HTTP-статус и конверт ответа.
//
// Поведение:
//   - err == nil - программная ошибка вызова: 500/internal;
//   - err оборачивает сентинел пакета - статус по таблице baseFromKind;
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504;
//   - прочее - 500/internal без утечки деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{
				Code:    "internal",
				Message: "internal error",
			},
		}
	}

	status, code, msg := baseFromKind(err)
	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError - хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// FromResponse собирает *Error из статуса и тела не-2xx ответа.
// Тело без конверта не считается ошибкой разбора: категория берётся из статуса.
func FromResponse(status int, body []byte, requestID string) *Error {
	e := &Error{
		Status:    status,
		Code:      "http_" + fmt.Sprint(status),
		Message:   http.StatusText(status),
		RequestID: requestID,
		kind:      KindFromStatus(status),
	}

	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Code != "" {
		e.Code = env.Error.Code
		e.Message = env.Error.Message
		if env.Error.RequestID != "" {
			e.RequestID = env.Error.RequestID
		}
	}

	return e
}

// KindFromStatus - обратный маппинг HTTP-статуса в сентинел.
func KindFromStatus(status int) error {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return ErrInvalidArgument
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict, status == http.StatusPreconditionFailed:
		return ErrConflict
	case status == http.StatusTooManyRequests,
		status == http.StatusServiceUnavailable,
		status == http.StatusGatewayTimeout,
		status == http.StatusBadGateway:
		return ErrUnavailable
	default:
		return ErrInternal
	}
}

// baseFromKind - базовый маппинг ошибка -> HTTP/код/сообщение.
func baseFromKind(err error) (int, string, string) {
	switch {
	case stderrors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case stderrors.Is(err, ErrForbidden):
		return http.StatusForbidden, "permission_denied", "permission denied"
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, ErrConflict):
		return http.StatusConflict, "already_exists", "already exists"
	case stderrors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
