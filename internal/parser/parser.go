package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"cvmatch_backend/internal/models"
)

// Типизированные ошибки парсинга. Per-CV: сбой парсинга одного CV никогда не
// фатален для matching-прогона - такой CV просто остается без parsed_data.
var (
	ErrFileUnreadable      = errors.New("cv file is missing or unreadable")
	ErrUnsupportedFileType = errors.New("unsupported cv file extension")
	ErrFileTooLarge        = errors.New("cv file exceeds the size limit")
	ErrParseFailed         = errors.New("cv parsing failed")
)

// CVParser - контракт внешнего коллаборатора парсинга: путь к файлу на входе,
// структурированный ParsedCVData на выходе. Успешный парсинг может вернуть
// данные, где все поля nil - пустой документ не ошибка.
type CVParser interface {
	ParseCV(ctx context.Context, filePath string) (*models.ParsedCVData, error)
}

// FileChecks - локальная предвалидация файла перед обращением к внешнему
// сервису: существование, расширение, размер.
type FileChecks struct {
	MaxFileSize int64
	AllowedExts []string
}

func (c FileChecks) Validate(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return ErrFileUnreadable
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	allowed := false
	for _, e := range c.AllowedExts {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrUnsupportedFileType
	}

	if c.MaxFileSize > 0 && info.Size() > c.MaxFileSize {
		return ErrFileTooLarge
	}

	return nil
}
