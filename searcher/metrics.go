package searcher

import (
	"time"
)

type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Playouts     int
	FullRollouts int
	TreeReused   bool
}

type MetricsCollector interface {
	Start()
	AddPlayout()
	AddFullRollout()
	ReusedTree(reused bool)
	Complete() SearchMetrics
}

type metricsCollector struct {
	startTime    time.Time
	playouts     int
	fullRollouts int
	treeReused   bool
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.playouts = 0
	m.fullRollouts = 0
}

func (m *metricsCollector) AddPlayout() {
	m.playouts++
}

func (m *metricsCollector) AddFullRollout() {
	m.fullRollouts++
}

func (m *metricsCollector) ReusedTree(reused bool) {
	m.treeReused = reused
}

func (m *metricsCollector) Complete() SearchMetrics {
	return SearchMetrics{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Playouts:     m.playouts,
		FullRollouts: m.fullRollouts,
		TreeReused:   m.treeReused,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                  {}
func (m *noMetricsCollector) AddPlayout()             {}
func (m *noMetricsCollector) AddFullRollout()         {}
func (m *noMetricsCollector) ReusedTree(bool)         {}
func (m *noMetricsCollector) Complete() SearchMetrics { return SearchMetrics{} }
