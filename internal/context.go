package internal

import "context"

type ctxKeyCorrelationId struct{}

func CtxWithCorrelationId(ctx context.Context, correlationId string) context.Context {
	if correlationId == "" {
		correlationId = GenerateId()
	}
	return context.WithValue(ctx, ctxKeyCorrelationId{}, correlationId)
}

func CorrelationIdFromCtx(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if correlationId, ok := ctx.Value(ctxKeyCorrelationId{}).(string); ok {
		return correlationId
	}
	return ""
}
