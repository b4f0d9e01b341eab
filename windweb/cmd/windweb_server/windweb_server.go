package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/westphae/gowind/wind"
	"github.com/westphae/gowind/windweb"
)

//go:embed res/wind.html
var windPage string

// page configures the wind arrow page.
type page struct {
	Title  string
	Socket string  // websocket path
	Unit   string  // speed unit shown
	Factor float64 // m/s to Unit
}

var units = map[string]float64{
	"m/s":  1,
	"kt":   1 / wind.Knot,
	"km/h": 3.6,
}

func pageHandler(p page) (http.Handler, error) {
	t, err := template.New("wind").Parse(windPage)
	if err != nil {
		return nil, err
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.Execute(w, p); err != nil {
			log.Println("WindWeb: Error rendering page:", err)
		}
	}), nil
}

func main() {
	var (
		addr  = flag.String("addr", fmt.Sprintf(":%d", windweb.Port), "The port for the wind data publication.")
		unit  = flag.String("unit", "m/s", "Wind speed unit: m/s, kt or km/h.")
		title = flag.String("title", "Wind", "Page title.")
	)
	flag.Parse()

	f, ok := units[*unit]
	if !ok {
		log.Fatalf("WindWeb: unknown unit %q\n", *unit)
	}
	h, err := pageHandler(page{Title: *title, Socket: "/windweb", Unit: *unit, Factor: f})
	if err != nil {
		log.Fatal("WindWeb: ", err)
	}

	r := windweb.NewRoom()
	go r.Run(context.Background())

	http.Handle("/", h)
	http.Handle("/windweb", r)
	log.Println("WindWeb: Starting web server on", *addr)
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal("WindWeb: ListenAndServe fatal error:", err.Error())
	}
}
