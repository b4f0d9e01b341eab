/*
Test out the wind estimator in wind/.
Define a flight path and air mass in code, or load recorded data, and then synthesize the
matching GPS and airspeed data, adding some noise if desired.
Then see if the estimator can replicate the "true" wind given the noisy and limited input data.
*/

package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net"
	"strings"
	"time"

	"github.com/westphae/gowind/gdl90"
	"github.com/westphae/gowind/sim"
	"github.com/westphae/gowind/wind"
)

func main() {
	var (
		dt                 float64
		gpsNoise, asiNoise float64
		asiBias            float64
		gpsInop, asiInop   bool
		seed               int64
		scenario           string
		logFile            string
		nmeaAddr           string
		gdl90Addr          string
		realtime           bool
		sit                sim.Situation
		err                error
	)

	const (
		defaultDt        = 1.0
		dtUsage          = "Sample period, seconds"
		defaultGPSNoise  = 0.0
		gpsNoiseUsage    = "Amount of noise to add to GPS velocity components, m/s"
		defaultASINoise  = 0.0
		asiNoiseUsage    = "Amount of noise to add to airspeed measurements, m/s"
		defaultASIBias   = 0.0
		asiBiasUsage     = "Amount of bias to add to airspeed measurements, m/s"
		defaultGPSInop   = false
		gpsInopUsage     = "Make the GPS inoperative"
		defaultASIInop   = false
		asiInopUsage     = "Make the Airspeed sensor inoperative"
		defaultSeed      = 1
		seedUsage        = "Random seed for the noise"
		defaultScenario  = "thermal"
		scenarioUsage    = "Scenario to use: filename or one of "
		defaultLogFile   = "wind.csv"
		logFileUsage     = "CSV file to log the run to"
		defaultNMEAAddr  = ""
		nmeaAddrUsage    = "Also send the measurements as NMEA lines to this UDP address"
		defaultGDL90Addr = ""
		gdl90AddrUsage   = "Also send G load and IAS as GDL90 AHRS reports to this UDP address"
		defaultRealtime  = false
		realtimeUsage    = "Pace the run in real time"
	)

	var names []string
	for k := range sim.Scenarios {
		names = append(names, k)
	}

	flag.Float64Var(&dt, "dt", defaultDt, dtUsage)
	flag.Float64Var(&gpsNoise, "gps-noise", defaultGPSNoise, gpsNoiseUsage)
	flag.Float64Var(&gpsNoise, "n", defaultGPSNoise, gpsNoiseUsage)
	flag.Float64Var(&asiNoise, "asi-noise", defaultASINoise, asiNoiseUsage)
	flag.Float64Var(&asiNoise, "v", defaultASINoise, asiNoiseUsage)
	flag.Float64Var(&asiBias, "asi-bias", defaultASIBias, asiBiasUsage)
	flag.Float64Var(&asiBias, "j", defaultASIBias, asiBiasUsage)
	flag.BoolVar(&gpsInop, "w", defaultGPSInop, gpsInopUsage)
	flag.BoolVar(&asiInop, "u", defaultASIInop, asiInopUsage)
	flag.Int64Var(&seed, "seed", defaultSeed, seedUsage)
	flag.StringVar(&scenario, "scenario", defaultScenario, scenarioUsage+strings.Join(names, ", "))
	flag.StringVar(&scenario, "s", defaultScenario, scenarioUsage+strings.Join(names, ", "))
	flag.StringVar(&logFile, "log", defaultLogFile, logFileUsage)
	flag.StringVar(&nmeaAddr, "nmea", defaultNMEAAddr, nmeaAddrUsage)
	flag.StringVar(&gdl90Addr, "gdl90", defaultGDL90Addr, gdl90AddrUsage)
	flag.BoolVar(&realtime, "realtime", defaultRealtime, realtimeUsage)
	flag.Parse()

	if s, ok := sim.Scenarios[scenario]; ok {
		sit = s
	} else {
		log.Printf("Loading data from %s\n", scenario)
		if sit, err = sim.NewSituationFromFile(scenario); err != nil {
			log.Fatalln(err)
		}
	}

	nmeaConn := dialUDP(nmeaAddr)
	gdl90Conn := dialUDP(gdl90Addr)

	l, err := sim.NewFileLogger(logFile,
		"T", "W1", "W2", "U", "I", "Q", "A", "V1", "V2", "WindE", "WindN", "Quality")
	if err != nil {
		log.Fatalln(err)
	}
	defer l.Close()

	fmt.Println("Simulation parameters:")
	fmt.Printf("\tScenario: %s, %.0f s to %.0f s every %.2f s\n", scenario, sit.BeginTime(), sit.EndTime(), dt)
	fmt.Println("GPS:")
	fmt.Printf("\tInop: %t\n", gpsInop)
	fmt.Printf("\tNoise: %f m/s\n", gpsNoise)
	fmt.Println("ASI:")
	fmt.Printf("\tInop: %t\n", asiInop)
	fmt.Printf("\tNoise: %f m/s\n", asiNoise)
	fmt.Printf("\tBias: %f m/s\n", asiBias)

	n := &sim.Noise{GPS: gpsNoise, ASI: asiNoise, ASIBias: asiBias, GPSInop: gpsInop, ASIInop: asiInop,
		Rand: rand.New(rand.NewSource(seed))}
	est := wind.NewEstimator(wind.DefaultConfig())

	var (
		sumErr float64
		nErr   int
		last   wind.Result
	)
	fmt.Println("Running Simulation")
	err = sim.Run(sit, est, dt, n, func(st *sim.Step) {
		last = st.R
		e, nn := st.R.Wind.Components()
		v1, v2 := math.NaN(), math.NaN()
		if st.XValid {
			v1, v2 = st.X.V1, st.X.V2
			if st.R.Quality > 0 {
				sumErr += math.Hypot(e-v1, nn-v2)
				nErr++
			}
		}
		l.Log(st.M.T, st.M.W1, st.M.W2, st.M.U, st.M.I, st.M.Q, st.M.A, v1, v2, e, nn, float64(st.R.Quality))

		if nmeaConn != nil {
			for _, s := range sim.Sentences(&st.M) {
				fmt.Fprintf(nmeaConn, "%s\r\n", s)
			}
		}
		if gdl90Conn != nil {
			r := gdl90.Report{Roll: math.NaN(), Pitch: math.NaN(), Heading: math.NaN(),
				Inclination: math.NaN(), TurnCoord: st.D.TurnRate, GLoad: st.M.A, KIAS: st.M.I / wind.Knot,
				PAlt: math.NaN(), VertSpeed: math.NaN()}
			gdl90Conn.Write(r.Marshal())
		}
		if realtime {
			time.Sleep(time.Duration(dt * float64(time.Second)))
		}
	})
	if err != nil {
		log.Printf("Simulation error: %s\n", err)
	}

	if nErr > 0 {
		fmt.Printf("Mean wind error while quality > 0: %.2f m/s over %d samples\n", sumErr/float64(nErr), nErr)
	}
	fmt.Printf("Final wind: %.1f m/s from %.0f°, quality %d\n", last.Wind.Norm, last.Wind.Bearing, last.Quality)
}

func dialUDP(addr string) net.Conn {
	if addr == "" {
		return nil
	}
	c, err := net.Dial("udp", addr)
	if err != nil {
		log.Fatalln(err)
	}
	return c
}
