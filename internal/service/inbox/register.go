package inbox

import (
	"google.golang.org/grpc"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
)

// Registrar ties the Inbox service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

func (r *Registrar) Register(s grpc.ServiceRegistrar) {
	api.RegisterInboxServiceServer(s, NewInboxService(r.appCtx))
}
