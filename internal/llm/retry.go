package llm

import (
	"context"

	"github.com/outwell/callscope/internal/common"
)

// retryClient decorates a Client with transport-level retry. Only errors that
// common.IsRetryable recognizes (rate limits, deadline exceeded, explicitly
// retryable wrappers) trigger another attempt.
type retryClient struct {
	inner       Client
	maxAttempts int
}

func withRetry(inner Client, maxAttempts int) Client {
	return &retryClient{inner: inner, maxAttempts: maxAttempts}
}

func (c *retryClient) Complete(ctx context.Context, req Request) (Response, error) {
	var resp Response
	err := common.WithRetry(ctx, func() error {
		var opErr error
		resp, opErr = c.inner.Complete(ctx, req)
		return opErr
	}, common.RetryOptions{MaxAttempts: c.maxAttempts})
	return resp, err
}
