package types

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Partner is a peer server we exchange states with.
type Partner struct {
	Name               string
	AcceptPassword     string
	BaseURL            string
	ControlProbability float64
	ConnectionSchedule string
	ProvideUsername    string
	ProvidePassword    string
	LastConnection     time.Time
	Kicked             bool
}

// MarshalLogObject implements logging encoder for Partner.
func (p *Partner) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("name", p.Name)
	encoder.AddString("url", p.BaseURL)
	encoder.AddFloat64("control_probability", p.ControlProbability)
	encoder.AddBool("kicked", p.Kicked)
	return nil
}

// Bucket is the index of a time bucket of a fixed width since the unix epoch.
type Bucket uint64

// BucketOf returns the bucket containing t.
func BucketOf(t time.Time, interval time.Duration) Bucket {
	if t.Before(time.Unix(0, 0)) {
		return 0
	}
	return Bucket(t.UnixNano() / int64(interval))
}

// Start returns the beginning of the bucket.
func (b Bucket) Start(interval time.Duration) time.Time {
	return time.Unix(0, int64(b)*int64(interval))
}

// FailedSample is a control sample whose claimed state differed from the fetched one.
// At most one is kept per partner and address.
type FailedSample struct {
	Partner string
	Address string
	Bucket  Bucket
}

// Violation is a direct infraction of a partner. Recording one kicks the partner.
type Violation struct {
	Partner     string
	Description string
	Timestamp   time.Time
}

// MarshalLogObject implements logging encoder for Violation.
func (v *Violation) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("partner", v.Partner)
	encoder.AddString("description", v.Description)
	encoder.AddTime("timestamp", v.Timestamp)
	return nil
}
