package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters. HTTP-level metrics come from the fiberprometheus
// middleware; these cover events that do not map one-to-one onto requests.
var (
	NotificationsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gather_notifications_emitted_total",
		Help: "Notifications written, by notification type.",
	}, []string{"type"})

	ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gather_activities_recorded_total",
		Help: "Activity stream entries written, by activity type.",
	}, []string{"type"})
)
