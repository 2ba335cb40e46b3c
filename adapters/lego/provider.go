// Package lego exposes the challenge use case as a lego DNS-01 provider.
package lego

import (
	"context"
	"fmt"
	"time"

	legochallenge "github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/dns01"

	"github.com/kompox/zoneacme/usecase/challenge"
)

// Default propagation check settings reported by Timeout.
const (
	DefaultPropagationTimeout = 2 * time.Minute
	DefaultPollingInterval    = 5 * time.Second
)

// ChallengeHandler publishes and withdraws challenge records.
type ChallengeHandler interface {
	Add(ctx context.Context, in *challenge.AddInput) (*challenge.AddOutput, error)
	Remove(ctx context.Context, in *challenge.RemoveInput) (*challenge.RemoveOutput, error)
}

// Provider implements challenge.Provider and challenge.ProviderTimeout.
//
// lego calls providers without a context, so the context given to NewProvider
// (carrying the logger) is used for every call.
type Provider struct {
	ctx      context.Context
	handler  ChallengeHandler
	timeout  time.Duration
	interval time.Duration
}

var (
	_ legochallenge.Provider        = (*Provider)(nil)
	_ legochallenge.ProviderTimeout = (*Provider)(nil)
)

// NewProvider returns a Provider. A zero timeout or interval selects the defaults.
func NewProvider(ctx context.Context, handler ChallengeHandler, timeout, interval time.Duration) *Provider {
	if timeout <= 0 {
		timeout = DefaultPropagationTimeout
	}
	if interval <= 0 {
		interval = DefaultPollingInterval
	}
	return &Provider{ctx: ctx, handler: handler, timeout: timeout, interval: interval}
}

// Present publishes the TXT record for the DNS-01 challenge of domain.
func (p *Provider) Present(domain, _, keyAuth string) error {
	info := dns01.GetChallengeInfo(domain, keyAuth)
	if _, err := p.handler.Add(p.ctx, &challenge.AddInput{Hostname: info.EffectiveFQDN, Value: info.Value}); err != nil {
		return fmt.Errorf("zoneacme: %w", err)
	}
	return nil
}

// CleanUp withdraws the TXT record published by Present.
func (p *Provider) CleanUp(domain, _, keyAuth string) error {
	info := dns01.GetChallengeInfo(domain, keyAuth)
	if _, err := p.handler.Remove(p.ctx, &challenge.RemoveInput{Hostname: info.EffectiveFQDN, Value: info.Value}); err != nil {
		return fmt.Errorf("zoneacme: %w", err)
	}
	return nil
}

// Timeout returns the propagation timeout and polling interval.
func (p *Provider) Timeout() (timeout, interval time.Duration) {
	return p.timeout, p.interval
}
