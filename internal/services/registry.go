package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	UserService     UserService
	ProjectService  ProjectService
	CVService       CVService
	MatchingService MatchingService
}
