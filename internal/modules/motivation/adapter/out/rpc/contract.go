// Package rpc defines the go-plugin contract between focuscraft and an
// external motivation provider binary. The service descriptor is written
// by hand against a JSON codec so provider authors do not need protoc.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey   = "focuscraft"
	serviceName    = "focuscraft.motivator.v1.Motivator"
	jsonCodecName  = "json"
	methodGenerate = "/" + serviceName + "/Generate"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "FOCUSCRAFT_MOTIVATOR",
	MagicCookieValue: "focuscraft",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type GenerateRequest struct {
	SessionProgress float64 `json:"session_progress"`
	TimeRemaining   int     `json:"time_remaining"`
}

type GenerateResponse struct {
	Message string `json:"message"`
}

type MotivatorServer interface {
	Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type MotivatorClient interface {
	Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type motivatorClient struct {
	conn *grpc.ClientConn
}

func NewMotivatorClient(conn *grpc.ClientConn) MotivatorClient {
	return &motivatorClient{conn: conn}
}

func (c *motivatorClient) Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error) {
	out := &GenerateResponse{}
	if err := c.conn.Invoke(ctx, methodGenerate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterMotivatorServer(server grpc.ServiceRegistrar, impl MotivatorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*MotivatorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Generate",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &GenerateRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Generate(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGenerate}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*GenerateRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Generate(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/motivator-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl MotivatorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterMotivatorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewMotivatorClient(conn), nil
}

func PluginMap(impl MotivatorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
