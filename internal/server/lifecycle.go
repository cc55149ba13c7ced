// Package server runs the process's long-lived components: the cooldown
// sweeper, and whatever chat transport gets attached in front of the
// engine. Components start together and stop in reverse registration
// order on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running component. Start blocks until the service
// ends; Stop asks it to end and may return before it has.
type Service interface {
	Start() error
	Stop()
}

type namedService struct {
	name string
	svc  Service
}

// Lifecycle starts registered services and blocks until a termination
// signal, a context cancellation, or the first service failure, then stops
// everything in reverse registration order.
type Lifecycle struct {
	log      *zap.Logger
	services []namedService
}

// NewLifecycle creates an empty lifecycle.
//
// Precondition: log must be non-nil.
func NewLifecycle(log *zap.Logger) *Lifecycle {
	return &Lifecycle{log: log}
}

// Add registers a service. Registration order is start order; shutdown
// runs in reverse. Not safe to call once Run has started.
func (l *Lifecycle) Add(name string, svc Service) {
	l.services = append(l.services, namedService{name: name, svc: svc})
}

// Run starts every registered service and blocks. Shutdown is triggered by
// SIGINT, SIGTERM, ctx cancellation, or the first Start error; the error,
// if any, is returned after every service has stopped.
//
// Postcondition: all Start goroutines have returned when Run returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	bootAt := time.Now()

	var wg sync.WaitGroup
	failed := make(chan error, len(l.services))
	for _, ns := range l.services {
		ns := ns
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.log.Info("service starting", zap.String("service", ns.name))
			if err := ns.svc.Start(); err != nil {
				failed <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}
	l.log.Info("boot complete", zap.Int("services", len(l.services)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var cause error
	select {
	case sig := <-sigCh:
		l.log.Info("signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		l.log.Info("context cancelled")
	case cause = <-failed:
		l.log.Error("service failed", zap.Error(cause))
	}

	for i := len(l.services) - 1; i >= 0; i-- {
		ns := l.services[i]
		ns.svc.Stop()
		l.log.Info("service stopped", zap.String("service", ns.name))
	}
	wg.Wait()

	l.log.Info("shutdown complete", zap.Duration("uptime", time.Since(bootAt)))
	return cause
}
