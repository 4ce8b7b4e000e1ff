package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder observes training progress.
type Recorder interface {
	ObserveEpisode(length, bufferSize int)
	ObserveUpdate(loss, entropy, kl, lrMultiplier float64, earlyStop bool)
	ObserveEvaluation(winRatio float64, baselinePlayouts int, escalated bool)
}

type recorder struct {
	loss             prometheus.Gauge
	entropy          prometheus.Gauge
	kl               prometheus.Gauge
	lrMultiplier     prometheus.Gauge
	winRatio         prometheus.Gauge
	baselinePlayouts prometheus.Gauge
	bufferSize       prometheus.Gauge
	episodeLength    prometheus.Gauge
	episodes         prometheus.Counter
	updates          prometheus.Counter
	earlyStops       prometheus.Counter
	escalations      prometheus.Counter
}

// NewRecorder registers the training metrics with reg.
func NewRecorder(reg prometheus.Registerer) Recorder {
	f := promauto.With(reg)
	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: "gomoku", Subsystem: "train", Name: name, Help: help})
	}
	counter := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: "gomoku", Subsystem: "train", Name: name, Help: help})
	}
	return &recorder{
		loss:             gauge("loss", "Loss of the last completed epoch"),
		entropy:          gauge("entropy", "Policy entropy of the last completed epoch"),
		kl:               gauge("kl", "KL divergence of the last policy update"),
		lrMultiplier:     gauge("lr_multiplier", "Adaptive learning rate multiplier"),
		winRatio:         gauge("win_ratio", "Win ratio of the last evaluation"),
		baselinePlayouts: gauge("baseline_playouts", "Search budget of the baseline opponent"),
		bufferSize:       gauge("buffer_size", "Samples held by the experience buffer"),
		episodeLength:    gauge("episode_length", "Plies of the last self-play game"),
		episodes:         counter("episodes_total", "Self-play games collected"),
		updates:          counter("updates_total", "Policy updates run"),
		earlyStops:       counter("early_stops_total", "Policy updates stopped by the KL guard"),
		escalations:      counter("escalations_total", "Baseline strength escalations"),
	}
}

func (r *recorder) ObserveEpisode(length, bufferSize int) {
	r.episodes.Inc()
	r.episodeLength.Set(float64(length))
	r.bufferSize.Set(float64(bufferSize))
}

func (r *recorder) ObserveUpdate(loss, entropy, kl, lrMultiplier float64, earlyStop bool) {
	r.updates.Inc()
	r.loss.Set(loss)
	r.entropy.Set(entropy)
	r.kl.Set(kl)
	r.lrMultiplier.Set(lrMultiplier)
	if earlyStop {
		r.earlyStops.Inc()
	}
}

func (r *recorder) ObserveEvaluation(winRatio float64, baselinePlayouts int, escalated bool) {
	r.winRatio.Set(winRatio)
	r.baselinePlayouts.Set(float64(baselinePlayouts))
	if escalated {
		r.escalations.Inc()
	}
}

type dummyRecorder struct{}

func NewDummyRecorder() Recorder {
	return &dummyRecorder{}
}

func (r *dummyRecorder) ObserveEpisode(length, bufferSize int)                                    {}
func (r *dummyRecorder) ObserveUpdate(loss, entropy, kl, lrMultiplier float64, earlyStop bool)    {}
func (r *dummyRecorder) ObserveEvaluation(winRatio float64, baselinePlayouts int, escalated bool) {}
