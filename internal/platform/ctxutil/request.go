package ctxutil

import "context"

type requestDataKey struct{}

// RequestData carries the authenticated caller for the current request.
type RequestData struct {
	CallerEmail string
	Subject     string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey{})
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
