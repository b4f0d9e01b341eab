// Command windekf estimates the wind from GPS and air data received over serial or UDP, and
// publishes the estimates over MQTT and to a websocket display.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/westphae/gowind/config"
	"github.com/westphae/gowind/gdl90"
	"github.com/westphae/gowind/nmea"
	"github.com/westphae/gowind/telemetry"
	"github.com/westphae/gowind/windweb"
)

func main() {
	var (
		cfgFile = flag.String("config", "", "YAML configuration file")
		port    = flag.String("serial", "", "Serial port with NMEA input, e.g. /dev/ttyUSB0")
		baud    = flag.Uint("baud", 0, "Serial port baud rate")
		udp     = flag.String("udp", "", "UDP address for NMEA or Condor input, e.g. :4353")
		gdl     = flag.String("gdl90", "", "UDP address for GDL90 AHRS input, e.g. :4000")
		broker  = flag.String("mqtt", "", "MQTT broker, e.g. tcp://localhost:1883")
		web     = flag.String("web", "", "Address for the websocket display, e.g. :8000")
		logFile = flag.String("log", "", "Log to this file, rotated")
	)
	flag.Parse()

	cfg := config.Default()
	if *cfgFile != "" {
		var err error
		if cfg, err = config.Load(*cfgFile); err != nil {
			log.Fatalln(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "serial":
			cfg.Serial.Port = *port
		case "baud":
			cfg.Serial.Baud = *baud
		case "udp":
			cfg.UDP = *udp
		case "gdl90":
			cfg.GDL90 = *gdl
		case "mqtt":
			cfg.MQTT.Broker = *broker
		case "web":
			cfg.Web = *web
		case "log":
			cfg.LogFile = *logFile
		}
	})

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    16, // MB
			MaxBackups: 3,
			Compress:   true,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var pubs []telemetry.Publisher
	if cfg.MQTT.Broker != "" {
		p, err := telemetry.NewMQTTPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic)
		if err != nil {
			log.Fatalln(err)
		}
		defer p.Close()
		pubs = append(pubs, p)
		log.Printf("WindEKF: Publishing to %s on %s\n", cfg.MQTT.Topic, cfg.MQTT.Broker)
	}

	var room *windweb.Room
	if cfg.Web != "" {
		room = windweb.NewRoom()
		go room.Run(ctx)
		pubs = append(pubs, windweb.RoomPublisher{Room: room})
	}

	agg := telemetry.NewAggregator(cfg.Wind, pubs...)
	fixes := make(chan telemetry.Fix, 64)

	if cfg.Serial.Port != "" {
		opts := serial.OpenOptions{
			PortName:        cfg.Serial.Port,
			BaudRate:        cfg.Serial.Baud,
			DataBits:        8,
			StopBits:        1,
			MinimumReadSize: 1,
			ParityMode:      serial.PARITY_NONE,
		}
		p, err := serial.Open(opts)
		if err != nil {
			log.Fatalln(err)
		}
		defer p.Close()
		log.Printf("WindEKF: Serial port opened on %s at %d baud\n", opts.PortName, opts.BaudRate)
		go func() {
			if err := nmea.Scan(p, fixes); err != nil && ctx.Err() == nil {
				log.Printf("WindEKF: Serial read error: %v\n", err)
			}
		}()
	}
	if cfg.UDP != "" {
		conn := listenUDP(ctx, cfg.UDP)
		go nmea.Listen(conn, fixes)
	}
	if cfg.GDL90 != "" {
		conn := listenUDP(ctx, cfg.GDL90)
		go gdl90.Listen(conn, fixes)
	}

	// SIGUSR1 restarts the wind filter, e.g. after a tow
	usr := make(chan os.Signal, 1)
	signal.Notify(usr, syscall.SIGUSR1)
	go func() {
		for range usr {
			log.Println("WindEKF: Resetting wind filter")
			agg.Reset()
		}
	}()

	if cfg.Web != "" {
		mux := http.NewServeMux()
		mux.Handle("/windweb", room)
		mux.HandleFunc("/wind", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(agg.Snapshot())
		})
		srv := &http.Server{Addr: cfg.Web, Handler: mux}
		go func() {
			log.Println("WindEKF: Starting web server on", cfg.Web)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("WindEKF: ListenAndServe error: %v\n", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(sctx)
		}()
	}

	log.Println("WindEKF: Running")
	if err := agg.Run(ctx, fixes); err != nil && err != context.Canceled {
		log.Printf("WindEKF: %v\n", err)
	}
	log.Println("WindEKF: Shutting down")
}

// listenUDP opens a UDP listener that is closed when ctx is done.
func listenUDP(ctx context.Context, addr string) net.PacketConn {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		log.Fatalln(err)
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	log.Printf("WindEKF: Listening on UDP %s\n", conn.LocalAddr())
	return conn
}
