package services

import "github.com/janezhang99/SEW-v5-sub002/internal/core/domain"

// ServiceContainer holds instances of all the application services.
// It is the main entry point used by the handlers and the CLI.
type ServiceContainer struct {
	Expense ExpenseSvcFacade
	Project ProjectSvcFacade
	Event   EventSvcFacade
	Task    TaskSvcFacade
	Catalog domain.Catalog
}
