package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader is the header (and gRPC metadata key) carrying the request ID.
const RequestIDHeader = "x-request-id"

// TraceParentHeader is the W3C trace context header.
const TraceParentHeader = "traceparent"

// MaxRequestIDLength caps caller-supplied request IDs in bytes.
const MaxRequestIDLength = 128

// RequestID returns incoming when it is a usable request ID and a fresh UUID otherwise.
// Usable means 1 to MaxRequestIDLength bytes of printable ASCII.
func RequestID(incoming string) string {
	if incoming == "" || len(incoming) > MaxRequestIDLength {
		return uuid.New().String()
	}
	for i := 0; i < len(incoming); i++ {
		if c := incoming[i]; c < 0x21 || c > 0x7e {
			return uuid.New().String()
		}
	}
	return incoming
}

var traceContext = propagation.TraceContext{}

// TraceID returns the trace ID of a valid W3C traceparent in carrier, or "".
func TraceID(carrier propagation.TextMapCarrier) string {
	sc := trace.SpanContextFromContext(traceContext.Extract(context.Background(), carrier))
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// metadataCarrier adapts incoming gRPC metadata to the propagation API.
type metadataCarrier metadata.MD

func (c metadataCarrier) Get(key string) string {
	if v := metadata.MD(c).Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c metadataCarrier) Set(key, value string) { metadata.MD(c).Set(key, value) }

func (c metadataCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// RequestIDInterceptor is a gRPC interceptor that adds a request ID to the context.
// An incoming x-request-id metadata value is reused when usable, otherwise a new one
// is generated. A valid traceparent also puts its trace ID in the context.
func RequestIDInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		incoming := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				incoming = ids[0]
			}
			if traceID := TraceID(metadataCarrier(md)); traceID != "" {
				ctx = WithTraceID(ctx, traceID)
			}
		}

		ctx = WithRequestID(ctx, RequestID(incoming))

		return handler(ctx, req)
	}
}
