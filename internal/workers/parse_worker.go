package workers

import (
	"context"
	"time"

	"cvmatch_backend/internal/logger"
	"cvmatch_backend/internal/repositories"
	"cvmatch_backend/internal/services"
)

const sweepBatchSize = 20

// ParseWorker - фоновый воркер парсинга: периодически подбирает CV без
// parsed_data и прогоняет их через внешний парсер. Сбой парсинга одного CV
// не прерывает проход - CV останется неразобранным до следующей попытки.
type ParseWorker struct {
	cvRepo    repositories.ProjectCVRepository
	cvService services.CVService
	interval  time.Duration
}

func NewParseWorker(cvRepo repositories.ProjectCVRepository, cvService services.CVService, interval time.Duration) *ParseWorker {
	return &ParseWorker{
		cvRepo:    cvRepo,
		cvService: cvService,
		interval:  interval,
	}
}

// Start запускает фоновый цикл парсинга
func (w *ParseWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ParseWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("parse worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *ParseWorker) sweep(ctx context.Context) {
	cvs, err := w.cvRepo.FindUnparsed(sweepBatchSize)
	if err != nil {
		logger.WorkerLog("parse_worker", "find_unparsed", err)
		return
	}

	if len(cvs) == 0 {
		return
	}

	parsed := 0
	for i := range cvs {
		if _, err := w.cvService.Parse(ctx, cvs[i].ID); err != nil {
			// Изолируем сбой: один битый файл не останавливает проход
			logger.WorkerLog("parse_worker", "parse_cv "+cvs[i].ID, err)
			continue
		}
		parsed++
	}

	logger.Info("parse worker sweep finished", "picked", len(cvs), "parsed", parsed)
}
