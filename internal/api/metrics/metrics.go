// Package metrics defines and registers all custom Prometheus metrics for the
// Inverland CRM API. It is the single source of truth for metric names,
// labels, and help strings. Registration happens at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inverland"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PropertiesCreatedTotal counts newly created listings.
// Label:
//   - operation_type: "Venta", "Renta", or "Renta temporal"
var PropertiesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_created_total",
		Help:      "Total number of properties created, by operation type.",
	},
	[]string{"operation_type"},
)

// CampaignsSentTotal counts campaigns transitioned to Sent.
var CampaignsSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_sent_total",
		Help:      "Total number of campaigns sent.",
	},
)

// CampaignRecipients observes the audience size per sent campaign.
var CampaignRecipients = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "campaign_recipients",
		Help:      "Number of clients matched by each campaign send.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	},
)

// DuplicateUsersRemoved counts records deleted by the manual dedup operation.
var DuplicateUsersRemoved = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_users_removed_total",
		Help:      "Total duplicate user records removed by force-clean.",
	},
)
