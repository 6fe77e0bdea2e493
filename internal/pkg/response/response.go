package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope for every JSON body the API writes.
type SemanticResponse struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta describes one page of a list response.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

const (
	MessageOK                  = "ok"
	MessageCreated             = "created"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageInternalServerError = "internal server error"
	MessageBadGateway          = "bad gateway"
	MessageServiceUnavailable  = "service unavailable"
	MessageError               = "error"
)

var defaultMessages = map[int]string{
	fiber.StatusOK:                  MessageOK,
	fiber.StatusCreated:             MessageCreated,
	fiber.StatusBadRequest:          MessageBadRequest,
	fiber.StatusUnauthorized:        MessageUnauthorized,
	fiber.StatusForbidden:           MessageForbidden,
	fiber.StatusNotFound:            MessageNotFound,
	fiber.StatusConflict:            MessageConflict,
	fiber.StatusUnprocessableEntity: MessageUnprocessableEntity,
	fiber.StatusInternalServerError: MessageInternalServerError,
	fiber.StatusBadGateway:          MessageBadGateway,
	fiber.StatusServiceUnavailable:  MessageServiceUnavailable,
}

// MessageFor returns the fallback message for a status code.
func MessageFor(status int) string {
	if msg, ok := defaultMessages[status]; ok {
		return msg
	}
	switch {
	case status >= 500:
		return MessageInternalServerError
	case status >= 400:
		return MessageError
	default:
		return MessageOK
	}
}

func Success(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data, nil)
}

func Created(c fiber.Ctx, data interface{}) error {
	return write(c, fiber.StatusCreated, "", data, nil)
}

// Page writes a 200 list response. Count is taken from the number of items.
func Page[T any](c fiber.Ctx, items []T, limit, offset int) error {
	if items == nil {
		items = []T{}
	}
	return write(c, fiber.StatusOK, "", items, &Meta{Limit: limit, Offset: offset, Count: len(items)})
}

func Error(c fiber.Ctx, status int, message string, data interface{}) error {
	return write(c, status, message, data, nil)
}

func write(c fiber.Ctx, status int, message string, data interface{}, meta *Meta) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = MessageFor(status)
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data, Meta: meta})
}
