package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskboard/internal/domain"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskboard_coordinator_operations_total",
		Help: "Coordinator operations by name and outcome",
	}, []string{"operation", "outcome"})

	memberPromotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_member_promotions_total",
		Help: "Sole remaining members promoted to admin",
	})

	counterRepairs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taskboard_counter_repairs_total",
		Help: "Boards whose member_count or task_count was rewritten by a recount",
	})
)

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	operationsTotal.WithLabelValues(op, outcome).Inc()
}
