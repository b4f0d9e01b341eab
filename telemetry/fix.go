package telemetry

// Fix is one decoded input report. Only fields whose flag is set carry data.
type Fix struct {
	GroundValid bool
	GroundSpeed float64 // m/s
	Track       float64 // °, true

	TASValid bool
	TAS      float64 // m/s
	IASValid bool
	IAS      float64 // m/s

	QValid bool
	Q      float64 // dynamic pressure, Pa

	GLoadValid bool
	GLoad      float64
}

// Merge copies the valid fields of g into f.
func (f *Fix) Merge(g Fix) {
	if g.GroundValid {
		f.GroundValid, f.GroundSpeed, f.Track = true, g.GroundSpeed, g.Track
	}
	if g.TASValid {
		f.TASValid, f.TAS = true, g.TAS
	}
	if g.IASValid {
		f.IASValid, f.IAS = true, g.IAS
	}
	if g.QValid {
		f.QValid, f.Q = true, g.Q
	}
	if g.GLoadValid {
		f.GLoadValid, f.GLoad = true, g.GLoad
	}
}

// Empty reports whether f carries no data at all.
func (f Fix) Empty() bool {
	return !(f.GroundValid || f.TASValid || f.IASValid || f.QValid || f.GLoadValid)
}
