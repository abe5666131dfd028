package metricmgr

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

type MetricMgr interface {
	// Increment metric
	IncrementMetric(metric Metric, value int32) error
	// Retreive Metric
	GetMetric(metric Metric) (int32, bool)
	// copy of every metric
	Snapshot() map[Metric]int32
	// metrics as name=value pairs, sorted by name
	String() string
}

type _MetricMgr struct {
	metrics map[Metric]*int32
}

// Init returns a MetricMgr with every run metric set to 0.
func Init() MetricMgr {
	m := &_MetricMgr{
		metrics: make(map[Metric]*int32, len(allMetrics)),
	}
	for _, metric := range allMetrics {
		m.metrics[metric] = new(int32)
	}
	return m
}

func (m *_MetricMgr) IncrementMetric(metric Metric, value int32) error {
	ptr, ok := m.metrics[metric]
	if !ok {
		return errors.New("metric " + string(metric) + " not found")
	}
	atomic.AddInt32(ptr, value)
	return nil
}

func (m *_MetricMgr) GetMetric(metric Metric) (int32, bool) {
	ptr, ok := m.metrics[metric]
	if !ok {
		return int32(0), false
	}
	return atomic.LoadInt32(ptr), true
}

func (m *_MetricMgr) Snapshot() map[Metric]int32 {
	out := make(map[Metric]int32, len(m.metrics))
	for metric, ptr := range m.metrics {
		out[metric] = atomic.LoadInt32(ptr)
	}
	return out
}

func (m *_MetricMgr) String() string {
	snapshot := m.Snapshot()
	names := make([]string, 0, len(snapshot))
	for metric := range snapshot {
		names = append(names, string(metric))
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+strconv.Itoa(int(snapshot[Metric(name)])))
	}
	return strings.Join(parts, " ")
}
