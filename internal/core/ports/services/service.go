package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account   AccountSvcFacade
	Accrual   AccrualSvcFacade
	Sweep     SweepSvc
	Payment   PaymentSvc
	Reporting ReportingService
}
