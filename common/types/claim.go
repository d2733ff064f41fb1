package types

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type originKind uint8

const (
	originSelf originKind = iota
	originPartner
)

// Origin tells where a claim came from: either the local node (Self) or a named partner.
// Self sorts before any partner.
type Origin struct {
	kind    originKind
	partner string
}

// SelfOrigin is the origin of states fetched by the local node.
func SelfOrigin() Origin {
	return Origin{kind: originSelf}
}

// PartnerOrigin is the origin of states claimed by the named partner.
func PartnerOrigin(name string) Origin {
	return Origin{kind: originPartner, partner: name}
}

// IsSelf reports whether the origin is the local node.
func (o Origin) IsSelf() bool {
	return o.kind == originSelf
}

// Partner returns the partner name, and false for self-originated claims.
func (o Origin) Partner() (string, bool) {
	return o.partner, o.kind == originPartner
}

func (o Origin) String() string {
	if o.IsSelf() {
		return "self"
	}
	return "partner:" + o.partner
}

// Claim is a state awaiting validation.
type Claim struct {
	State     State
	Origin    Origin
	Timestamp time.Time
}

// Less orders self-originated claims first, then partner claims oldest first.
func (c *Claim) Less(other *Claim) bool {
	if c.Origin.kind != other.Origin.kind {
		return c.Origin.kind < other.Origin.kind
	}
	if c.Origin.IsSelf() {
		return false
	}
	return c.Timestamp.Before(other.Timestamp)
}

// MarshalLogObject implements logging encoder for Claim.
func (c *Claim) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("origin", c.Origin.String())
	encoder.AddTime("timestamp", c.Timestamp)
	return encoder.AddObject("state", &c.State)
}
