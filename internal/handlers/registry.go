package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	UserHandler     *UserHandler
	ProjectHandler  *ProjectHandler
	CVHandler       *CVHandler
	MatchingHandler *MatchingHandler
}
