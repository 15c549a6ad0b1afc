package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eskrenkovic/mediator-go"
	"github.com/prometheus/client_golang/prometheus"
)

var _ mediator.PipelineBehavior = (*RequestMetricsBehavior)(nil)

// RequestMetricsBehavior records how long each mediator request took and
// whether it failed.
type RequestMetricsBehavior struct {
	duration *prometheus.HistogramVec
}

func NewRequestMetricsBehavior(registerer prometheus.Registerer) *RequestMetricsBehavior {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "movie_duel",
		Name:      "request_duration_seconds",
		Help:      "Duration of mediator requests by request type and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"request", "outcome"})

	registerer.MustRegister(duration)

	return &RequestMetricsBehavior{duration: duration}
}

func (b *RequestMetricsBehavior) Handle(
	ctx context.Context,
	request interface{},
	next mediator.RequestHandlerFunc,
) (interface{}, error) {
	start := time.Now()

	response, err := next(ctx, request)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	b.duration.
		WithLabelValues(requestName(request), outcome).
		Observe(time.Since(start).Seconds())

	return response, err
}

func requestName(request interface{}) string {
	name := fmt.Sprintf("%T", request)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
