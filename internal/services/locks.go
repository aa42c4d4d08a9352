package services

import "sync"

// ProjectLocks - общий реестр per-project мьютексов для всех операций,
// пишущих score/ranking CV проекта. Через него сериализуются и матчинг-прогоны
// между собой, и замена критериев против идущего прогона: ResetScores, попавший
// в середину write-back, оставил бы скоры старых критериев как актуальные.
type ProjectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{locks: make(map[string]*sync.Mutex)}
}

// Get возвращает мьютекс проекта, создавая его при первом обращении
func (l *ProjectLocks) Get(projectID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[projectID] = lock
	}
	return lock
}
