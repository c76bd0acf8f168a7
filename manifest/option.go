package manifest

import "github.com/ardnew/rtm/log"

// Option configures [Parse] and [Lint].
type Option func(config) config

type config struct {
	logger  log.Logger
	network Network
}

func makeConfig(opts ...Option) config {
	c := config{network: Mainnet}
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// WithLogger sets the logger that receives trace records. The zero Logger,
// which is the default, discards everything.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithNetwork selects the network whose address format [Lint] enforces. The
// default is [Mainnet].
func WithNetwork(network Network) Option {
	return func(c config) config {
		c.network = network

		return c
	}
}
