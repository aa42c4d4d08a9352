package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (оборачивание ошибок из репозиториев)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (частые, статичные ошибки)
// =========================================================================

// --- Uploads & Files ---

// ErrFileTooLarge - файл превышает максимальный размер парсинга (10MB).
var ErrFileTooLarge = New(
	CodeFileTooLarge,
	"parsing",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge, // 413
)

// ErrUnsupportedFileType - расширение файла не поддерживается парсером.
var ErrUnsupportedFileType = New(
	CodeUnsupportedFile,
	"parsing",
	"The provided file type is not supported",
	http.StatusUnsupportedMediaType, // 415
)

// --- Projects & CVs ---

// ErrCVLimitExceeded - в проекте уже максимальное количество CV.
var ErrCVLimitExceeded = New(
	CodeLimitExceeded,
	"project",
	"Project already has the maximum number of CVs",
	http.StatusConflict, // 409
)

// ErrParsingFailed - фабрика для ошибок внешнего парсера (502).
// Per-CV, не фатальна для matching-прогона: CV без parsed_data просто
// исключается из скоринга.
func ErrParsingFailed(err error) *AppError {
	return Wrap(err, CodeParsingFailed, "parsing", "CV parsing failed", http.StatusBadGateway)
}
