package api

import (
	"regexp"
	"sort"
	"sync"
	"time"
)

// RequestTrace captures the outcome of a single handled request.
type RequestTrace struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// RouteStats aggregates request timings for one method+path pair.
type RouteStats struct {
	Method      string        `json:"method"`
	Path        string        `json:"path"`
	Count       int64         `json:"count"`
	ErrorCount  int64         `json:"errorCount"`
	TotalTime   time.Duration `json:"totalTime"`
	AvgTime     time.Duration `json:"avgTime"`
	MinTime     time.Duration `json:"minTime"`
	MaxTime     time.Duration `json:"maxTime"`
	LastRequest time.Time     `json:"lastRequest"`
}

// Collector aggregates request metrics in memory. Traces are handed off
// through a buffered channel and folded in by a background goroutine, so
// recording never blocks a request. When the channel is full the trace is
// dropped; metrics here are best-effort.
type Collector struct {
	mu        sync.RWMutex
	traces    []RequestTrace
	maxTraces int
	routes    map[string]*RouteStats
	started   time.Time
	requests  int64
	errors    int64

	traceChan chan RequestTrace
	stopChan  chan struct{}
}

var (
	globalCollector *Collector
	collectorOnce   sync.Once
)

// Metrics returns the process-wide collector, starting it on first use.
func Metrics() *Collector {
	collectorOnce.Do(func() {
		globalCollector = newCollector(2000)
	})
	return globalCollector
}

func newCollector(maxTraces int) *Collector {
	c := &Collector{
		traces:    make([]RequestTrace, 0, maxTraces),
		maxTraces: maxTraces,
		routes:    make(map[string]*RouteStats),
		started:   time.Now(),
		traceChan: make(chan RequestTrace, 512),
		stopChan:  make(chan struct{}),
	}
	go c.run()
	return c
}

// Record queues a trace for aggregation without blocking.
func (c *Collector) Record(trace RequestTrace) {
	select {
	case c.traceChan <- trace:
	default:
		// channel full, drop the trace
	}
}

// Stop shuts down the aggregation goroutine.
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) run() {
	for {
		select {
		case trace := <-c.traceChan:
			c.fold(trace)
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) fold(trace RequestTrace) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.traces) >= c.maxTraces {
		c.traces = c.traces[1:]
	}
	c.traces = append(c.traces, trace)

	key := trace.Method + " " + normalizePath(trace.Path)
	stats, ok := c.routes[key]
	if !ok {
		stats = &RouteStats{
			Method:  trace.Method,
			Path:    normalizePath(trace.Path),
			MinTime: trace.Duration,
		}
		c.routes[key] = stats
	}

	stats.Count++
	stats.TotalTime += trace.Duration
	stats.AvgTime = stats.TotalTime / time.Duration(stats.Count)
	stats.LastRequest = trace.StartTime
	if trace.Duration < stats.MinTime {
		stats.MinTime = trace.Duration
	}
	if trace.Duration > stats.MaxTime {
		stats.MaxTime = trace.Duration
	}
	if trace.Status >= 400 {
		stats.ErrorCount++
		c.errors++
	}
	c.requests++
}

// Traces returns up to limit of the most recent traces, newest first.
func (c *Collector) Traces(limit int) []RequestTrace {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RequestTrace, 0, limit)
	for i := len(c.traces) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, c.traces[i])
	}
	return out
}

// Routes returns per-route aggregates sorted by average time, slowest first.
func (c *Collector) Routes() []RouteStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]RouteStats, 0, len(c.routes))
	for _, stats := range c.routes {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgTime > out[j].AvgTime })
	return out
}

// Summary returns service-level totals since the collector started.
func (c *Collector) Summary() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elapsed := time.Since(c.started)
	var rps float64
	if elapsed.Seconds() > 0 {
		rps = float64(c.requests) / elapsed.Seconds()
	}
	var errorRate float64
	if c.requests > 0 {
		errorRate = float64(c.errors) / float64(c.requests)
	}

	return map[string]interface{}{
		"totalRequests":     c.requests,
		"totalErrors":       c.errors,
		"errorRate":         errorRate,
		"requestsPerSecond": rps,
		"uptime":            elapsed.String(),
		"routeCount":        len(c.routes),
		"traceCount":        len(c.traces),
	}
}

var objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)

// normalizePath collapses ObjectID path segments so that requests for
// different documents aggregate under one route.
func normalizePath(path string) string {
	return objectIDSegment.ReplaceAllString(path, "/{id}$1")
}
