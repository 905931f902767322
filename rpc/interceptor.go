// Package rpc logs gRPC calls as actions. Every RPC method becomes a method of a type
// named after its service, so "/greeter.v1.Greeter/SayHello" is logged as the action
// "greeter.v1.Greeter::SayHello".
package rpc

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/gaborage/go-bricks-actionlog/descriptor"
	"github.com/gaborage/go-bricks-actionlog/interceptor"
	"github.com/gaborage/go-bricks-actionlog/trace"
)

const requestParam = "request"

// Config configures the interceptors.
type Config struct {
	// Skip excludes full method names such as "/grpc.health.v1.Health/Check".
	Skip func(fullMethod string) bool

	// Descriptor applies to every RPC. Default: the zero descriptor.
	Descriptor descriptor.Descriptor

	// SensitiveRequests hides request messages from every action log format.
	SensitiveRequests bool
}

// UnaryServerInterceptor logs every unary call as an action with the request as its only
// parameter and the response as its return value.
func UnaryServerInterceptor(ic *interceptor.Interceptor, cfg Config) grpc.UnaryServerInterceptor {
	methods := &rpcMethods{cfg: cfg}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if cfg.Skip != nil && cfg.Skip(info.FullMethod) {
			return handler(ctx, req)
		}
		m, err := methods.method(info.FullMethod, false)
		if err != nil {
			return handler(ctx, req)
		}

		return ic.Invoke(withRequestID(ctx), interceptor.Invocation{
			Method:  m,
			Args:    []any{req},
			Proceed: func(ctx context.Context) (any, error) { return handler(ctx, req) },
		})
	}
}

// StreamServerInterceptor logs every streaming call as a void action.
func StreamServerInterceptor(ic *interceptor.Interceptor, cfg Config) grpc.StreamServerInterceptor {
	methods := &rpcMethods{cfg: cfg}

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if cfg.Skip != nil && cfg.Skip(info.FullMethod) {
			return handler(srv, ss)
		}
		m, err := methods.method(info.FullMethod, true)
		if err != nil {
			return handler(srv, ss)
		}

		_, err = ic.Invoke(withRequestID(ss.Context()), interceptor.Invocation{
			Method: m,
			Proceed: func(ctx context.Context) (any, error) {
				return nil, handler(srv, &serverStream{ServerStream: ss, ctx: ctx})
			},
		})
		return err
	}
}

// ServerOptions returns the server options installing both interceptors.
func ServerOptions(ic *interceptor.Interceptor, cfg Config) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(UnaryServerInterceptor(ic, cfg)),
		grpc.ChainStreamInterceptor(StreamServerInterceptor(ic, cfg)),
	}
}

// withRequestID picks up the x-request-id metadata of the incoming call.
func withRequestID(ctx context.Context) context.Context {
	var candidate string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(trace.MetadataRequestID); len(values) > 0 {
			candidate = values[0]
		}
	}
	ctx, _ = trace.EnsureRequestID(ctx, candidate)
	return ctx
}

// SplitMethodName splits "/package.Service/Method" into its service and method parts.
func SplitMethodName(fullMethod string) (service, method string, err error) {
	name := strings.TrimPrefix(fullMethod, "/")
	i := strings.LastIndex(name, "/")
	if i <= 0 || i == len(name)-1 {
		return "", "", fmt.Errorf("rpc: malformed method name %q", fullMethod)
	}
	return name[:i], name[i+1:], nil
}

// rpcMethods defines one method per full method name on first use.
type rpcMethods struct {
	cfg     Config
	methods sync.Map // full method -> *descriptor.Method
}

func (r *rpcMethods) method(fullMethod string, stream bool) (*descriptor.Method, error) {
	if m, ok := r.methods.Load(fullMethod); ok {
		return m.(*descriptor.Method), nil
	}

	service, name, err := SplitMethodName(fullMethod)
	if err != nil {
		return nil, err
	}
	m := &descriptor.Method{Name: name, Void: stream}
	if !stream {
		m.Params = []descriptor.Param{{Name: requestParam, Sensitive: r.cfg.SensitiveRequests}}
	}
	d := r.cfg.Descriptor
	if _, err := descriptor.Define(&descriptor.Type{
		Name:       service,
		Descriptor: &d,
		Methods:    []*descriptor.Method{m},
	}); err != nil {
		return nil, err
	}

	actual, _ := r.methods.LoadOrStore(fullMethod, m)
	return actual.(*descriptor.Method), nil
}

// serverStream overrides the context of a grpc.ServerStream.
type serverStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *serverStream) Context() context.Context {
	return s.ctx
}
