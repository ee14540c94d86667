package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProbeRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syphon_probe_requests_total",
		Help: "Number of metadata probe requests handled.",
	})

	StreamAdmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syphon_stream_admissions_total",
		Help: "Number of stream requests checked against the rate limiter, by decision.",
	}, []string{"decision"})

	StreamedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syphon_streamed_bytes_total",
		Help: "Number of upstream body bytes relayed to downstream clients.",
	})
)
