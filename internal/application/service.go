package application

import (
	"linkbridge/internal/repository"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type Service struct {
	LinkService   LinkService
	RelayService  RelayService
	ExportService ExportService
	Dispatcher    Dispatcher
}

// NewService wires the application around one identity store, one code
// store and the destination chat that relayed messages go to.
func NewService(repos *repository.Repository, codes repository.LinkCodes, dest Destination, logger Logger) *Service {
	links := NewLinkServiceImpl(repos.IdentityLink, codes, logger)
	relay := NewRelayServiceImpl(
		dest,
		NewMentionResolverImpl(repos.IdentityLink, logger),
		NewMediaDispatcherImpl(dest),
		logger,
	)

	return &Service{
		LinkService:   links,
		RelayService:  relay,
		ExportService: NewExportServiceImpl(repos.IdentityLink, logger),
		Dispatcher:    NewDispatcherImpl(links, relay, codes.TTL(), logger),
	}
}
