package netinfo

import "context"

// Effective connection types that disable prefetching.
const (
	EffectiveTypeSlow2G = "slow-2g"
	EffectiveType2G     = "2g"
	EffectiveType3G     = "3g"
	EffectiveType4G     = "4g"
)

// Conditions describes the client's current network quality.
type Conditions struct {
	// SaveData reports a data-saver preference.
	SaveData bool

	// EffectiveType is the reported connection class ("slow-2g", "2g",
	// "3g", "4g"). Empty means unknown.
	EffectiveType string
}

// Allowed reports whether prefetching is permitted under these
// conditions: data-saver and very slow connections disable it.
// Unknown conditions allow it.
func (c Conditions) Allowed() bool {
	if c.SaveData {
		return false
	}
	switch c.EffectiveType {
	case EffectiveTypeSlow2G, EffectiveType2G:
		return false
	}
	return true
}

// Provider reports current network conditions.
// Implementations wrap whatever signal the environment exposes
// (client hints, probe measurements, static config).
type Provider interface {
	Conditions(ctx context.Context) (Conditions, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Conditions, error)

// Conditions implements Provider.
func (f ProviderFunc) Conditions(ctx context.Context) (Conditions, error) {
	return f(ctx)
}

// Static is a Provider that always reports the same conditions.
// Useful for tests and for environments without a network signal.
type Static struct {
	C Conditions
}

// Conditions implements Provider.
func (s Static) Conditions(context.Context) (Conditions, error) {
	return s.C, nil
}

var (
	_ Provider = ProviderFunc(nil)
	_ Provider = Static{}
)
