// Package osc sends avatar parameter updates to VRChat's OSC input.
package osc

import (
	"context"
	"fmt"
	"math"

	goosc "github.com/hypebeast/go-osc/osc"
)

// Default endpoint and parameter addresses.
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 9000
	DefaultNumberAddress = "/avatar/parameters/Lunatic_Number"
	DefaultResetAddress  = "/avatar/parameters/Lunatic_Reset"
)

// Config holds the OSC endpoint and the two parameter addresses.
type Config struct {
	Host          string
	Port          int
	NumberAddress string
	ResetAddress  string
}

// DefaultConfig returns the loopback VRChat OSC endpoint.
func DefaultConfig() Config {
	return Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		NumberAddress: DefaultNumberAddress,
		ResetAddress:  DefaultResetAddress,
	}
}

// Validate checks that the endpoint and addresses are usable.
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("osc host is required")
	}
	if c.Port <= 0 || c.Port > math.MaxUint16 {
		return fmt.Errorf("osc port must be in 1-65535, got %d", c.Port)
	}
	if len(c.NumberAddress) == 0 || c.NumberAddress[0] != '/' {
		return fmt.Errorf("osc number address must start with '/', got %q", c.NumberAddress)
	}
	if len(c.ResetAddress) == 0 || c.ResetAddress[0] != '/' {
		return fmt.Errorf("osc reset address must start with '/', got %q", c.ResetAddress)
	}
	return nil
}

// Client is a fire-and-forget OSC sender. Each send dials a fresh UDP socket.
type Client struct {
	cfg    Config
	client *goosc.Client
}

// NewClient validates cfg and returns a client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg:    cfg,
		client: goosc.NewClient(cfg.Host, cfg.Port),
	}, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.cfg }

// SendNumber sends number as an int32 argument to the number address.
func (c *Client) SendNumber(ctx context.Context, number int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if number < math.MinInt32 || number > math.MaxInt32 {
		return fmt.Errorf("osc: number %d out of int32 range", number)
	}

	msg := goosc.NewMessage(c.cfg.NumberAddress, int32(number))
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("osc: sending %s: %w", c.cfg.NumberAddress, err)
	}
	return nil
}

// SendReset sends boolean true to the reset address.
func (c *Client) SendReset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := goosc.NewMessage(c.cfg.ResetAddress, true)
	if err := c.client.Send(msg); err != nil {
		return fmt.Errorf("osc: sending %s: %w", c.cfg.ResetAddress, err)
	}
	return nil
}
