package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

type Logger interface {
	Error(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Info(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type (
	Service interface {
		Name() string
		Init() error
		// Run blocks until ctx is cancelled or the service fails.
		Run(ctx context.Context) error
		Stop()
	}
	Services interface {
		AddService(service ...Service)
		Run(ctx context.Context) error
	}
	Manager struct {
		log      Logger
		services []Service
		signals  []os.Signal
	}
)

func NewManager(log Logger) *Manager {
	return &Manager{log: log, signals: []os.Signal{os.Interrupt, syscall.SIGTERM}}
}

func (s *Manager) AddService(service ...Service) {
	s.services = append(s.services, service...)
}

// Run initializes every service in order, starts them, and blocks until a
// shutdown signal arrives, ctx is cancelled, or any service returns an
// error. All started services are stopped before Run returns.
func (s *Manager) Run(ctx context.Context) error {
	s.log.Info("going to start %d services", len(s.services))
	for count, service := range s.services {
		if err := service.Init(); err != nil {
			for i := 0; i < count; i++ {
				s.services[i].Stop()
			}
			return fmt.Errorf("init %s: %w", service.Name(), err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(s.services))
	var wg sync.WaitGroup
	for _, service := range s.services {
		wg.Add(1)
		go func(svc Service) {
			defer wg.Done()
			if err := svc.Run(ctx); err != nil {
				errCh <- fmt.Errorf("%s: %w", svc.Name(), err)
			}
		}(service)
	}

	c := make(chan os.Signal, 1)
	if len(s.signals) > 0 {
		signal.Notify(c, s.signals...)
		defer signal.Stop(c)
	}

	var runErr error
	select {
	case sig := <-c:
		s.log.Info("received %s", sig)
	case <-ctx.Done():
	case runErr = <-errCh:
		s.log.Error("service failed: %v", runErr)
	}

	cancel()
	s.stop()
	wg.Wait()
	return runErr
}

func (s *Manager) stop() {
	s.log.Info("going to stop")
	for i := len(s.services) - 1; i >= 0; i-- {
		s.services[i].Stop()
	}
}
