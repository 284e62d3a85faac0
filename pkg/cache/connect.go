package cache

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/matzehuels/geomkit/pkg/httputil"
)

// ErrNetwork marks failures to reach a remote backend.
var ErrNetwork = errors.New("cache backend unreachable")

const connectAttempts = 3

var connectDelay = time.Second

// ping runs check until it succeeds. Network errors are retried with
// exponential backoff; anything else fails at once.
func ping(ctx context.Context, backend string, check func(context.Context) error) error {
	err := httputil.Retry(ctx, connectAttempts, connectDelay, func() error {
		err := check(ctx)
		var ne net.Error
		if errors.As(err, &ne) {
			return &httputil.RetryableError{Err: err}
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNetwork, backend, err)
	}
	return nil
}
