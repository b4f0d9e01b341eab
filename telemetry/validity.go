package telemetry

// Maximum ages of aggregated values, s
const (
	GroundExpiry   = 10
	AirspeedExpiry = 30
	GLoadExpiry    = 5
)

// Validity records when a value was last provided.
// The zero Validity is unavailable.
type Validity struct {
	t  float64
	ok bool
}

// Update marks the value as provided at time now.
func (v *Validity) Update(now float64) {
	v.t, v.ok = now, true
}

func (v *Validity) Clear() {
	*v = Validity{}
}

func (v Validity) Available() bool {
	return v.ok
}

// Time returns when the value was last provided.
func (v Validity) Time() float64 {
	return v.t
}

// Expire clears v if it is older than maxAge at time now, or if the clock went backwards.
func (v *Validity) Expire(now, maxAge float64) {
	if v.ok && (now-v.t > maxAge || now < v.t) {
		v.Clear()
	}
}
