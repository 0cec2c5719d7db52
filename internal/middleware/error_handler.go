package middleware

import (
	"errors"

	"autoquiz/internal/domain"
	"autoquiz/internal/dto"
	"autoquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized fiber error handler. Handlers and services
// return domain errors; this is the single place that maps them to HTTP.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.Get()

	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.FieldError, 0, len(validationErrs))
		for _, ve := range validationErrs {
			details = append(details, dto.FieldError{Field: ve.Field, Message: ve.Message})
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "Request validation failed",
			Details: details,
		})
	}

	var validationErr domain.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    string(domain.CodeValidation),
			Message: "Request validation failed",
			Details: []dto.FieldError{{Field: validationErr.Field, Message: validationErr.Message}},
		})
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := statusForCode(domainErr.Code)
		if status >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("path", c.Path()),
				zap.String("code", string(domainErr.Code)),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(dto.ErrorResponse{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: fiberErr.Message,
		})
	}

	log.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    string(domain.CodeInternal),
		Message: "An unexpected error occurred",
	})
}

func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNotFound, domain.CodeQuizNotFound:
		return fiber.StatusNotFound
	case domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidFormat,
		domain.CodeOutOfRange, domain.CodeInvalidTransition, domain.CodeIngestionError:
		return fiber.StatusBadRequest
	case domain.CodeProviderError:
		return fiber.StatusServiceUnavailable
	case domain.CodeStorageError, domain.CodeInternal:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
