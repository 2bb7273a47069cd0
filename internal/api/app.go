package api

import (
	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/service"
)

type App interface {
	Logger() internal.Logger
	Store() *service.SleepStore
	Metrics() *Metrics
}

type app struct {
	logger  internal.Logger
	store   *service.SleepStore
	metrics *Metrics
}

// NewApp wires the store, logger and metrics the handlers depend on.
func NewApp(store *service.SleepStore, logger internal.Logger, metrics *Metrics) App {
	return &app{logger: logger, store: store, metrics: metrics}
}

func (a *app) Logger() internal.Logger     { return a.logger }
func (a *app) Store() *service.SleepStore { return a.store }
func (a *app) Metrics() *Metrics          { return a.metrics }
