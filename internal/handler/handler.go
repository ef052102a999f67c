package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/maxviazov/dispensing-data-access/internal/model"
	"github.com/maxviazov/dispensing-data-access/internal/service"
)

// APIV1Prefix is the base path of the versioned read API.
const APIV1Prefix = "/api/v1"

// Readers bundles the read services exposed under the API prefix. A nil reader leaves its
// routes unmounted.
type Readers struct {
	AdministrationRoutes   service.Reader[model.AdministrationRoute]
	Servers                service.Reader[model.Server]
	TimingRecordPriorities service.Reader[model.TimingRecordPriority]
	AuthenticationEvents   service.Reader[model.AuthenticationEvent]
	InventoryTransactions  service.Reader[model.InventoryTransaction]
}

// Register mounts all public routes on the given engine. metrics may be nil, in which case
// /metrics is not served.
func Register(r *gin.Engine, db Pinger, metrics prometheus.Gatherer, readers Readers) {
	h := NewHealthHandler(db)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
	if metrics != nil {
		r.GET("/metrics", MetricsHandler(metrics))
	}

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		mount(api, "/administration-routes", readers.AdministrationRoutes)
		mount(api, "/servers", readers.Servers)
		mount(api, "/timing-record-priorities", readers.TimingRecordPriorities)
		mount(api, "/authentication-events", readers.AuthenticationEvents)
		mount(api, "/inventory-transactions", readers.InventoryTransactions)
	}
}

func mount[T any](api *gin.RouterGroup, path string, reader service.Reader[T]) {
	if reader == nil {
		return
	}
	NewResourceHandler(reader).Register(api.Group(path))
}
