// Package poller schedules punch ingestion from configured terminals
// into the punch store. Devices are polled independently: one
// device's failures never delay another's schedule.
package poller

import (
	"context"
	"log"
	"sync"
	"time"

	"attendance-engine/internal/device"
	"attendance-engine/internal/models"
	"attendance-engine/internal/store"

	"github.com/google/uuid"
)

// ClientFactory builds a device client for one configured terminal.
// Injected so tests can substitute fakes.
type ClientFactory func(cfg device.Config) device.Client

// Poller owns the polling goroutines for a set of devices plus their
// cancellation. Construct with New, start with Start, tear down with
// Stop; there is no package-level singleton.
type Poller struct {
	devices  []device.Config
	interval time.Duration
	realtime bool
	factory  ClientFactory

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	cursors  map[string]*time.Time // device addr -> newest persisted punch time
	failures map[string]int        // device addr -> consecutive failed cycles
}

// New creates a poller for the given device set.
func New(devices []device.Config, interval time.Duration, realtime bool, factory ClientFactory) *Poller {
	return &Poller{
		devices:  devices,
		interval: interval,
		realtime: realtime,
		factory:  factory,
		cursors:  make(map[string]*time.Time),
		failures: make(map[string]int),
	}
}

// Start launches one polling loop per device, plus a real-time
// consumer per device when enabled. It returns immediately.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for _, cfg := range p.devices {
		p.wg.Add(1)
		go p.pollLoop(ctx, cfg)

		if p.realtime {
			p.wg.Add(1)
			go p.realtimeLoop(ctx, cfg)
		}
	}
	log.Printf("[Poller] Started polling %d device(s) every %s (realtime=%v)", len(p.devices), p.interval, p.realtime)
}

// Stop cancels all device tasks and waits for them to finish. Each
// task disconnects its device handle on the way out, best-effort.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.wg.Wait()
	log.Println("[Poller] Stopped.")
}

// pollLoop runs an immediate first cycle, then one per tick.
func (p *Poller) pollLoop(ctx context.Context, cfg device.Config) {
	defer p.wg.Done()

	p.runCycle(ctx, cfg)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx, cfg)
		}
	}
}

// runCycle performs one connect -> fetch -> persist pass against one
// device. Failures are logged and counted; the next tick retries
// independently.
func (p *Poller) runCycle(ctx context.Context, cfg device.Config) {
	cycleID := uuid.New().String()[:8]
	addr := cfg.Addr()

	cycleCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client := p.factory(cfg)
	if err := client.Connect(); err != nil {
		// Disconnect defensively; a half-open handle must not leak.
		_ = client.Disconnect()
		p.recordFailure(addr)
		log.Printf("[Poller] cycle=%s device=%s connect failed (attempt %d): %v", cycleID, addr, p.failureCount(addr), err)
		return
	}
	defer func() {
		if err := client.Disconnect(); err != nil {
			log.Printf("[Poller] cycle=%s device=%s disconnect failed: %v", cycleID, addr, err)
		}
	}()

	since := p.cursor(addr)
	raws, err := client.FetchLogs(cycleCtx, since, nil)
	if err != nil {
		p.recordFailure(addr)
		log.Printf("[Poller] cycle=%s device=%s fetch failed (attempt %d): %v", cycleID, addr, p.failureCount(addr), err)
		return
	}

	inserted, dropped := p.ingest(addr, raws)
	p.clearFailures(addr)
	if len(raws) > 0 || dropped > 0 {
		log.Printf("[Poller] cycle=%s device=%s fetched=%d inserted=%d dropped=%d", cycleID, addr, len(raws), inserted, dropped)
	}
}

// realtimeLoop keeps a subscription open for the lifetime of the
// poller, re-subscribing after connection loss. Pushed events feed
// the same idempotent persist path as the timer cycles, so overlap
// with polled history cannot create duplicates.
func (p *Poller) realtimeLoop(ctx context.Context, cfg device.Config) {
	defer p.wg.Done()
	addr := cfg.Addr()

	for {
		if ctx.Err() != nil {
			return
		}

		client := p.factory(cfg)
		ch, err := client.Subscribe(ctx)
		if err != nil {
			log.Printf("[Poller] device=%s realtime subscribe failed: %v", addr, err)
			_ = client.Disconnect()
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval):
				continue
			}
		}

		for raw := range ch {
			p.ingest(addr, []device.RawPunch{raw})
		}
		_ = client.Disconnect()
	}
}

// ingest normalizes raw punches and hands them to the punch store.
// The device cursor advances only past punches the store confirms it
// holds (fresh inserts and duplicates alike); punches lost to a store
// error stay behind the cursor and are refetched on a later cycle.
// Malformed records are dropped and counted without aborting the
// batch.
func (p *Poller) ingest(addr string, raws []device.RawPunch) (inserted, dropped int) {
	var batch []models.PunchRecord
	for _, raw := range raws {
		rec, err := device.Normalize(raw)
		if err != nil {
			dropped++
			log.Printf("[Poller] device=%s dropped malformed punch: %v", addr, err)
			continue
		}
		batch = append(batch, rec)
	}

	if len(batch) == 0 {
		return 0, dropped
	}

	inserted, retained := store.PersistPunches(batch)
	for _, rec := range retained {
		p.advanceCursor(addr, rec.PunchTime)
	}
	if lost := len(batch) - len(retained); lost > 0 {
		log.Printf("[Poller] device=%s %d punch(es) not stored, cursor held back for refetch", addr, lost)
	}
	return inserted, dropped
}

func (p *Poller) cursor(addr string) *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursors[addr]
}

func (p *Poller) advanceCursor(addr string, t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.cursors[addr]
	if cur == nil || t.After(*cur) {
		p.cursors[addr] = &t
	}
}

func (p *Poller) recordFailure(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[addr]++
}

func (p *Poller) clearFailures(addr string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[addr] = 0
}

func (p *Poller) failureCount(addr string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures[addr]
}
