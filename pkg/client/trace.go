package client

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mattnite/groovebasin/pkg/protocol"
)

// traceCall wraps a response handler so the call carries one span from
// transmission to resolution. A call stranded by a dropped connection
// never resolves, so its span never ends — mirroring the pending-call
// leak the engine deliberately preserves.
func (c *Client) traceCall(req *protocol.Request, handler ResponseHandler) ResponseHandler {
	if c.cfg.Tracer == nil {
		return handler
	}

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	_, span := c.cfg.Tracer.Start(ctx, "groovebasin.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.opcode", req.Opcode().String()),
			attribute.Int64("rpc.seq", int64(req.Seq())),
		),
	)

	return func(payload []byte) {
		span.SetAttributes(attribute.Int("rpc.response_bytes", len(payload)))
		span.End()
		if handler != nil {
			handler(payload)
		}
	}
}
