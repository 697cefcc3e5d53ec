package api

import (
	"context"

	"google.golang.org/grpc"
)

const ProfileServiceName = "eventswipe.v1.ProfileService"

const (
	ProfileService_GetProfile_FullMethodName        = "/" + ProfileServiceName + "/GetProfile"
	ProfileService_Register_FullMethodName          = "/" + ProfileServiceName + "/Register"
	ProfileService_UpdateProfile_FullMethodName     = "/" + ProfileServiceName + "/UpdateProfile"
	ProfileService_UpdateLocation_FullMethodName    = "/" + ProfileServiceName + "/UpdateLocation"
	ProfileService_UpdatePreferences_FullMethodName = "/" + ProfileServiceName + "/UpdatePreferences"
)

// RegisterRequest creates the caller's profile. The id comes from the token.
type RegisterRequest struct {
	Name             string   `json:"name"`
	OrganizationName string   `json:"organization_name,omitempty"`
	IsOrganization   bool     `json:"is_organization"`
	Age              *int     `json:"age,omitempty"`
	Gender           string   `json:"gender,omitempty"`
	Street           string   `json:"street,omitempty"`
	City             string   `json:"city,omitempty"`
	Description      string   `json:"description,omitempty"`
	Interests        []string `json:"interests,omitempty"`
	ProfileImage     string   `json:"profile_image,omitempty"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type UpdateLocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type ProfileServiceServer interface {
	GetProfile(context.Context, *Empty) (*Profile, error)
	Register(context.Context, *RegisterRequest) (*Profile, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*Profile, error)
	UpdateLocation(context.Context, *UpdateLocationRequest) (*Profile, error)
	UpdatePreferences(context.Context, *Preferences) (*Profile, error)
}

func profileServer(srv interface{}) ProfileServiceServer { return srv.(ProfileServiceServer) }

var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProfileServiceName,
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProfileServiceName, "GetProfile", func(srv interface{}, ctx context.Context, in *Empty) (*Profile, error) {
			return profileServer(srv).GetProfile(ctx, in)
		}),
		unary(ProfileServiceName, "Register", func(srv interface{}, ctx context.Context, in *RegisterRequest) (*Profile, error) {
			return profileServer(srv).Register(ctx, in)
		}),
		unary(ProfileServiceName, "UpdateProfile", func(srv interface{}, ctx context.Context, in *UpdateProfileRequest) (*Profile, error) {
			return profileServer(srv).UpdateProfile(ctx, in)
		}),
		unary(ProfileServiceName, "UpdateLocation", func(srv interface{}, ctx context.Context, in *UpdateLocationRequest) (*Profile, error) {
			return profileServer(srv).UpdateLocation(ctx, in)
		}),
		unary(ProfileServiceName, "UpdatePreferences", func(srv interface{}, ctx context.Context, in *Preferences) (*Profile, error) {
			return profileServer(srv).UpdatePreferences(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventswipe/v1/profile",
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

type ProfileServiceClient interface {
	GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Profile, error)
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Profile, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*Profile, error)
	UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*Profile, error)
	UpdatePreferences(ctx context.Context, in *Preferences, opts ...grpc.CallOption) (*Profile, error)
}

type profileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileServiceClient(cc grpc.ClientConnInterface) ProfileServiceClient {
	return &profileServiceClient{cc}
}

func (c *profileServiceClient) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, ProfileService_GetProfile_FullMethodName, in, opts)
}

func (c *profileServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, ProfileService_Register_FullMethodName, in, opts)
}

func (c *profileServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, ProfileService_UpdateProfile_FullMethodName, in, opts)
}

func (c *profileServiceClient) UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, ProfileService_UpdateLocation_FullMethodName, in, opts)
}

func (c *profileServiceClient) UpdatePreferences(ctx context.Context, in *Preferences, opts ...grpc.CallOption) (*Profile, error) {
	return invoke[Profile](ctx, c.cc, ProfileService_UpdatePreferences_FullMethodName, in, opts)
}
