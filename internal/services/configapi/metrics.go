// Copyright (c) 2024, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package configapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediaweb",
			Name:      "config_fetch_total",
			Help:      "Total api/config reads by result",
		},
		[]string{"result"},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mediaweb",
			Name:      "config_fetch_duration_seconds",
			Help:      "Latency of api/config reads",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
