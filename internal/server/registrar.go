package server

import "google.golang.org/grpc"

// Registrar attaches one API service to a server.
type Registrar interface {
	Register(s grpc.ServiceRegistrar)
}

// RegistrarFunc adapts a plain function to Registrar.
type RegistrarFunc func(s grpc.ServiceRegistrar)

func (f RegistrarFunc) Register(s grpc.ServiceRegistrar) { f(s) }
