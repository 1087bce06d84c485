package llm

import "context"

type taskKey struct{}

// WithTask tags a context with the logical task issuing the call
// ("classify", "rewrite"). Middleware uses it for log lines and the
// fake client uses it to pick a canned reply.
func WithTask(ctx context.Context, task string) context.Context {
	return context.WithValue(ctx, taskKey{}, task)
}

// TaskFrom returns the task tag, or "" when untagged.
func TaskFrom(ctx context.Context) string {
	if v, ok := ctx.Value(taskKey{}).(string); ok {
		return v
	}
	return ""
}
