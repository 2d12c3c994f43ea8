package robot

import (
	"context"
	"time"

	"github.com/teslashibe/go-sumo/pkg/sumo"
)

// SumoDialer returns a Dialer that opens real robot sessions over the
// Sumo's UDP protocol. d2cPort is the local port announced during
// discovery (0 picks an ephemeral one) and timeout bounds the whole
// handshake.
func SumoDialer(d2cPort int, timeout time.Duration) Dialer {
	return func(ctx context.Context, addr string) (Session, error) {
		c, err := sumo.Connect(ctx, sumo.Options{
			Addr:           addr,
			D2CPort:        d2cPort,
			ConnectTimeout: timeout,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Ensure the transport client satisfies the session contract.
var _ Session = (*sumo.Client)(nil)
