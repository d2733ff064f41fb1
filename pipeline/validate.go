package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
)

var (
	// ErrInvalidState is returned for states that are malformed or carry a bad signature.
	ErrInvalidState = errors.New("invalid state")
	// ErrExpired is returned for profiles submitted more than lifetime and grace period ago.
	ErrExpired = errors.New("state expired")
	// ErrRecentlyExpired is returned for profiles that expired less than the grace period ago.
	// Such states are dropped without blaming anyone.
	ErrRecentlyExpired = errors.New("state recently expired")
)

// Limits bound the sizes of state fields in bytes.
type Limits struct {
	Address     int `mapstructure:"address"`
	FullName    int `mapstructure:"full-name"`
	Hometown    int `mapstructure:"hometown"`
	CountryCode int `mapstructure:"country-code"`
	// Services bounds the comma separated list of services.
	Services int `mapstructure:"services"`
	// Service bounds a single service token.
	Service int `mapstructure:"service"`
}

func DefaultLimits() Limits {
	return Limits{
		Address:     256,
		FullName:    128,
		Hometown:    128,
		CountryCode: 2,
		Services:    512,
		Service:     32,
	}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

func checkLength(field, value string, limit int) error {
	if len(value) > limit {
		return invalid("%s exceeds %d bytes", field, limit)
	}
	return nil
}

// Validate asserts that a trusted state may be committed.
func (p *Pipeline) Validate(state *types.State) error {
	now := p.clock.Now()
	if state.Address == "" {
		return invalid("empty address")
	}
	if err := checkLength("address", state.Address, p.cfg.Limits.Address); err != nil {
		return err
	}
	if state.RetrievalTimestamp.After(now.Add(p.cfg.MaxClockDrift)) {
		return invalid("retrieved in the future at %v", state.RetrievalTimestamp)
	}
	if !state.HasProfile() {
		return nil
	}
	profile := state.Profile
	if err := p.verifier.VerifyProfile(state); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if profile.SubmissionTimestamp.After(now.Add(p.cfg.MaxClockDrift)) {
		return invalid("submitted in the future at %v", profile.SubmissionTimestamp)
	}
	if state.RetrievalTimestamp.Before(profile.SubmissionTimestamp) {
		return invalid("retrieved at %v before submission at %v", state.RetrievalTimestamp, profile.SubmissionTimestamp)
	}
	if err := p.checkFields(profile); err != nil {
		return err
	}
	return p.checkExpiry(profile.SubmissionTimestamp, now)
}

func (p *Pipeline) checkFields(profile *types.Profile) error {
	limits := p.cfg.Limits
	if err := checkLength("full name", profile.FullName, limits.FullName); err != nil {
		return err
	}
	if err := checkLength("hometown", profile.Hometown, limits.Hometown); err != nil {
		return err
	}
	if err := checkLength("country code", profile.CountryCode, limits.CountryCode); err != nil {
		return err
	}
	for _, service := range profile.Services {
		if service == "" || strings.Contains(service, ",") {
			return invalid("malformed service %q", service)
		}
		if err := checkLength("service", service, limits.Service); err != nil {
			return err
		}
	}
	return checkLength("services", profile.ServicesString(), limits.Services)
}

func (p *Pipeline) checkExpiry(submitted, now time.Time) error {
	age := now.Sub(submitted)
	switch {
	case age > p.cfg.Lifetime+p.cfg.GracePeriod:
		return fmt.Errorf("%w: submitted at %v", ErrExpired, submitted)
	case age > p.cfg.Lifetime:
		return fmt.Errorf("%w: submitted at %v", ErrRecentlyExpired, submitted)
	}
	return nil
}
