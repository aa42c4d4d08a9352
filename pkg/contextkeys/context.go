package contextkeys

// ContextKey - тип для ключей контекста, чтобы избежать коллизий
type ContextKey string

const (
	// DBContextKey - ключ, под которым middleware кладет *gorm.DB
	// (пул соединений или транзакцию) в контекст запроса.
	DBContextKey ContextKey = "db"
)
