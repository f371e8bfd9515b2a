package logging

import "github.com/samber/oops"

// ErrorAttrs returns key–value pairs describing err. For oops errors the code
// and attached context are included next to the message.
func ErrorAttrs(err error) []any {
	if err == nil {
		return nil
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err.Error()}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != nil {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}
