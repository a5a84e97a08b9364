package obs

import (
	"context"
	"sync"
)

// requestTags is allocated once per request by RoutePatternMiddleware so that
// handlers deeper in the chain can annotate the log line and span written by
// the outer middleware after the handler returns.
type requestTags struct {
	mu     sync.Mutex
	route  string
	billID string
}

type tagsKey struct{}

func tagsFrom(ctx context.Context) *requestTags {
	if ctx == nil {
		return nil
	}
	tags, _ := ctx.Value(tagsKey{}).(*requestTags)
	return tags
}

func withTags(ctx context.Context) (context.Context, *requestTags) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tags := tagsFrom(ctx); tags != nil {
		return ctx, tags
	}
	tags := &requestTags{}
	return context.WithValue(ctx, tagsKey{}, tags), tags
}

// WithRoutePattern records the matched router pattern on the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	ctx, tags := withTags(ctx)
	tags.mu.Lock()
	tags.route = pattern
	tags.mu.Unlock()
	return ctx
}

// RoutePatternFromContext returns the recorded route pattern, or "".
func RoutePatternFromContext(ctx context.Context) string {
	tags := tagsFrom(ctx)
	if tags == nil {
		return ""
	}
	tags.mu.Lock()
	defer tags.mu.Unlock()
	return tags.route
}

// TagBill attaches a bill id to the current request. It is a no-op outside
// RoutePatternMiddleware.
func TagBill(ctx context.Context, billID string) {
	tags := tagsFrom(ctx)
	if tags == nil || billID == "" {
		return
	}
	tags.mu.Lock()
	tags.billID = billID
	tags.mu.Unlock()
}

// BillIDFromContext returns the bill id tagged on the request, or "".
func BillIDFromContext(ctx context.Context) string {
	tags := tagsFrom(ctx)
	if tags == nil {
		return ""
	}
	tags.mu.Lock()
	defer tags.mu.Unlock()
	return tags.billID
}
