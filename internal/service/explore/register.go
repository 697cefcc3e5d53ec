package explore

import (
	"google.golang.org/grpc"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
)

// Registrar ties the Feed service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Feed service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Feed service implementation to the gRPC server
func (r *Registrar) Register(s grpc.ServiceRegistrar) {
	api.RegisterFeedServiceServer(s, NewFeedService(r.appCtx))
}
