package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
)

// Target is one upstream service to probe.
type Target struct {
	Name string
	URL  string
}

// Prober periodically checks the liveness of the upstream services and keeps
// a bounded history of observations.
type Prober struct {
	scheduler *gocron.Scheduler
	client    *http.Client
	targets   []Target
	interval  time.Duration
	log       *statusLog
}

// NewProber creates a prober over the given targets.
func NewProber(targets []Target, interval time.Duration, client *http.Client, maxHistory int) *Prober {
	return &Prober{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		targets:   targets,
		interval:  interval,
		log:       newStatusLog(maxHistory),
	}
}

// Start schedules the periodic probe job and runs a first pass immediately.
func (p *Prober) Start() error {
	if len(p.targets) == 0 {
		log.Info().Msg("prober: no targets configured; nothing to schedule")
		return nil
	}

	seconds := int(p.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := p.scheduler.Every(seconds).Seconds().Do(p.probeAll)
	if err != nil {
		return err
	}

	p.scheduler.StartAsync()
	go p.probeAll()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (p *Prober) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// Statuses returns the latest observation per target.
func (p *Prober) Statuses() []Status {
	return p.log.Snapshot()
}

func (p *Prober) probeAll() {
	var wg sync.WaitGroup
	for _, target := range p.targets {
		target := target
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			p.log.append(p.probe(ctx, target))
		}()
	}
	wg.Wait()
}

func (p *Prober) probe(ctx context.Context, target Target) Status {
	st := Status{Service: target.Name, CheckedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		st.Detail = err.Error()
		return st
	}

	resp, err := p.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("service", target.Name).Msg("probe failed")
		st.Detail = err.Error()
		return st
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		st.Healthy = true
	} else {
		st.Detail = resp.Status
	}
	return st
}
