package errors

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo carries a stable code plus a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// Postgres error classes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError turns a raw database or service error into a stable code and a
// message safe to show users. Sensitive driver detail never leaks through;
// the context string steers entity-specific wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected server error occurred",
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    notFoundCode(context),
			Message: notFoundMessage(context),
		}
	}

	// Postgres reports constraint violations with SQLSTATE codes.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return parseDuplicateKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case pgForeignKeyViolation:
			return parseForeignKeyError(pqErr.Constraint+" "+pqErr.Detail, context)
		case pgNotNullViolation:
			return ErrorInfo{
				Code:    ValidationRequired,
				Message: "A required field is missing: " + pqErr.Column,
			}
		case pgCheckViolation:
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: "A field value is out of range",
			}
		}
	}

	// SQLite in tests and older driver paths surface constraint failures as
	// plain strings, so fall back to matching on the message.
	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower, context)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return parseForeignKeyError(errLower, context)
	}
	if strings.Contains(errLower, "not null constraint") || strings.Contains(errLower, "violates not-null") {
		return ErrorInfo{
			Code:    ValidationRequired,
			Message: "A required field is missing",
		}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "An upstream service is unavailable, please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(detail string, context string) ErrorInfo {
	detailLower := strings.ToLower(detail)

	if strings.Contains(detailLower, "idx_option_token") || strings.Contains(detailLower, "option_values") {
		return ErrorInfo{
			Code:    OptionTokenExists,
			Message: "A value with this token already exists for the option",
		}
	}
	if strings.Contains(detailLower, "idx_product_set") || strings.Contains(detailLower, "product_option_sets") {
		return ErrorInfo{
			Code:    SetAlreadyAssigned,
			Message: "The option set is already assigned to this product",
		}
	}
	if strings.Contains(detailLower, "email") || strings.Contains(detailLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "A record with the same identity already exists",
	}
}

func parseForeignKeyError(detail string, context string) ErrorInfo {
	detailLower := strings.ToLower(detail)

	if strings.Contains(detailLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The record is still referenced and cannot be deleted",
		}
	}
	if strings.Contains(detailLower, "option_set_id") {
		return ErrorInfo{
			Code:    SetNotFound,
			Message: "The referenced option set does not exist",
		}
	}
	if strings.Contains(detailLower, "option_id") {
		return ErrorInfo{
			Code:    OptionNotFound,
			Message: "The referenced option does not exist",
		}
	}
	if strings.Contains(detailLower, "product_id") {
		return ErrorInfo{
			Code:    ProductNotFound,
			Message: "The referenced product does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record does not exist",
	}
}

func notFoundCode(context string) string {
	switch entityFromContext(context) {
	case "option set":
		return SetNotFound
	case "option":
		return OptionNotFound
	case "value":
		return OptionValueNotFound
	case "rule":
		return RuleNotFound
	case "product":
		return ProductNotFound
	default:
		return ResourceNotFound
	}
}

func notFoundMessage(context string) string {
	entity := entityFromContext(context)
	if entity == "" {
		return "The requested record was not found"
	}
	return "The requested " + entity + " was not found"
}

func entityFromContext(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "option set") || strings.Contains(contextLower, "option_set"):
		return "option set"
	case strings.Contains(contextLower, "value"):
		return "value"
	case strings.Contains(contextLower, "rule"):
		return "rule"
	case strings.Contains(contextLower, "product"):
		return "product"
	case strings.Contains(contextLower, "user"):
		return "user"
	case strings.Contains(contextLower, "option"):
		return "option"
	default:
		return ""
	}
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)
	switch {
	case strings.Contains(contextLower, "create"):
		return "Creation failed, please try again shortly"
	case strings.Contains(contextLower, "update"):
		return "Update failed, please try again shortly"
	case strings.Contains(contextLower, "delete"):
		return "Deletion failed, please try again shortly"
	case strings.Contains(contextLower, "duplicate"):
		return "Duplication failed, please try again shortly"
	default:
		return "An unexpected server error occurred, please try again shortly"
	}
}
