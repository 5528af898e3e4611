package command

import (
	"context"
	"fmt"
	"time"

	"github.com/pixil98/go-rts/internal/console"
	"github.com/pixil98/go-rts/internal/driver"
	"github.com/pixil98/go-rts/internal/listener"
	"github.com/pixil98/go-rts/internal/messaging"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	desc, err := cfg.Storage.BuildGameDesc()
	if err != nil {
		return nil, fmt.Errorf("loading game description: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	rooms, err := cfg.Rooms.BuildManager(desc, messaging.NewRoomBus(natsServer))
	if err != nil {
		return nil, fmt.Errorf("creating room manager: %w", err)
	}

	// One driver tick is one simulation step.
	tick := time.Duration(float64(desc.Dt) * float64(time.Second))
	drv := driver.NewDriver([]driver.Ticker{rooms}, driver.WithTickLength(tick))

	cm := listener.NewConnectionManager(console.New(rooms))

	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(rooms, cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("listener-%d-%s", i, l.Protocol)] = w
	}

	return service.WorkerList{
		"nats":      natsServer,
		"driver":    afterReady(natsServer.Ready(), drv),
		"listeners": afterReady(natsServer.Ready(), &listeners),
	}, nil
}

// readyWorker holds a worker back until its dependency is up.
type readyWorker struct {
	ready  <-chan struct{}
	worker service.Worker
}

func afterReady(ready <-chan struct{}, w service.Worker) *readyWorker {
	return &readyWorker{ready: ready, worker: w}
}

func (r *readyWorker) Start(ctx context.Context) error {
	select {
	case <-r.ready:
	case <-ctx.Done():
		return nil
	}
	return r.worker.Start(ctx)
}
