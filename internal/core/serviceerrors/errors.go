package serviceerrors

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindConflict
	KindUnprocessableEntity
	KindInvalidRequest
)

type ErrorCode string

const (
	CodeNotFound            ErrorCode = "not_found"
	CodeConflict            ErrorCode = "conflict"
	CodeUnprocessableEntity ErrorCode = "unprocessable_entity"
	CodeInvalidRequest      ErrorCode = "invalid_request"

	CodeCustomerNotFound  ErrorCode = "customer_not_found"
	CodeProductNotFound   ErrorCode = "product_not_found"
	CodeInsufficientStock ErrorCode = "insufficient_stock"
	CodeStockConflict     ErrorCode = "stock_conflict"
)

func IsOfKind(err error, kind ErrorKind) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind == kind
	}
	return false
}

func IsOfCode(err error, code ErrorCode) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code == code
	}
	return false
}

type ServiceError struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: CodeConflict, Message: message}
}

func NewUnprocessableEntityError(message string) *ServiceError {
	return &ServiceError{Kind: KindUnprocessableEntity, Code: CodeUnprocessableEntity, Message: message}
}

func NewInvalidRequestError(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidRequest, Code: CodeInvalidRequest, Message: message}
}

func NewCustomerNotFoundError(customerID string) *ServiceError {
	return &ServiceError{
		Kind:    KindNotFound,
		Code:    CodeCustomerNotFound,
		Message: fmt.Sprintf("customer %s not found", customerID),
	}
}

func NewProductNotFoundError(productIDs []string) *ServiceError {
	return &ServiceError{
		Kind:    KindNotFound,
		Code:    CodeProductNotFound,
		Message: fmt.Sprintf("products not found: %s", strings.Join(productIDs, ", ")),
	}
}

// NewInsufficientStockError reports the quantity on hand, not the requested one.
func NewInsufficientStockError(productName string, available int) *ServiceError {
	return &ServiceError{
		Kind:    KindUnprocessableEntity,
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %q: %d available", productName, available),
	}
}

func NewStockConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Code: CodeStockConflict, Message: message}
}
