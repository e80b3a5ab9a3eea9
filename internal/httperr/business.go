package httperr

import "errors"

// ===============================
// Taxonomia de erros de negócio
// ===============================

type Kind int

const (
	KindValidation Kind = iota // entrada inválida, nunca re-tentado
	KindConflict               // horário ocupado, duplicidade
	KindNotFound
	KindDependency // gateway fora / recusou
	KindInternal
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrDependency(code string) error {
	return BusinessError{Kind: KindDependency, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func CodeOf(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return "internal_error"
}
