package logging

import "context"

type requestIDKey struct{}

// WithRequestID returns ctx carrying id. Both adapters add it to every
// record logged with that context under the "request_id" key.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withContextAttrs prepends attributes carried by ctx to args.
func withContextAttrs(ctx context.Context, args []any) []any {
	id := RequestID(ctx)
	if id == "" {
		return args
	}
	return append([]any{"request_id", id}, args...)
}
