package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError traduz a taxonomia de BusinessError para status HTTP.
// Violação de invariante interna aparece como conflito na borda.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	switch be.Kind {
	case KindValidation:
		Write(c, http.StatusBadRequest, be.Code, "Dados inválidos.")
	case KindConflict:
		Write(c, http.StatusConflict, be.Code, "Conflito de horário.")
	case KindNotFound:
		Write(c, http.StatusNotFound, be.Code, "Não encontrado.")
	case KindDependency:
		Write(c, http.StatusBadGateway, be.Code, "Falha no provedor externo.")
	default:
		Internal(c, be.Code, "Erro interno.")
	}
}
