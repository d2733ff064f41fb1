package trust

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql/partners"
)

// ErrInvalidPartner is returned when a partner record can't be stored.
var ErrInvalidPartner = errors.New("trust: invalid partner")

func validatePartner(p *types.Partner) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidPartner)
	case strings.ContainsAny(p.Name, "\r\n"):
		return fmt.Errorf("%w: name contains a newline", ErrInvalidPartner)
	case p.ControlProbability < 0 || p.ControlProbability > 1:
		return fmt.Errorf("%w: control probability %v out of [0, 1]", ErrInvalidPartner, p.ControlProbability)
	}
	return nil
}

// AddPartner stores a new partner. New partners are never kicked.
func (e *Engine) AddPartner(p types.Partner) error {
	if err := validatePartner(&p); err != nil {
		return err
	}
	p.Kicked = false
	return partners.Add(e.db, &p)
}

// UpdatePartner changes the editable fields of a partner.
func (e *Engine) UpdatePartner(p types.Partner) error {
	if err := validatePartner(&p); err != nil {
		return err
	}
	return e.updatePartner(p.Name, func() error {
		if _, err := partners.Get(e.db, p.Name); err != nil {
			return err
		}
		return partners.Update(e.db, &p)
	})
}

// updatePartner applies update to the stored record and drops the cached one.
// A record read by Partner before the update is never cached after it.
func (e *Engine) updatePartner(name string, update func() error) error {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if err := update(); err != nil {
		return err
	}
	e.partners.Remove(name)
	return nil
}

// Partner returns the partner record, from cache if possible.
func (e *Engine) Partner(name string) (types.Partner, error) {
	if p, ok := e.partners.Get(name); ok {
		return p, nil
	}
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()
	if p, ok := e.partners.Get(name); ok {
		return p, nil
	}
	p, err := partners.Get(e.db, name)
	if err != nil {
		return types.Partner{}, err
	}
	e.partners.Add(name, p)
	return p, nil
}

// Partners returns all partners.
func (e *Engine) Partners() ([]types.Partner, error) {
	return partners.All(e.db)
}

// UpdateLastConnection records the time of the last connection attempt.
func (e *Engine) UpdateLastConnection(name string, t time.Time) error {
	return e.updatePartner(name, func() error {
		return partners.SetLastConnection(e.db, name, t)
	})
}
