package windweb

import (
	"encoding/json"
	"log"

	"github.com/westphae/gowind/telemetry"
	"github.com/westphae/gowind/wind"
)

const Port = 8000

// WindData is the message displayed by the browser.
type WindData struct {
	T       float64 // s
	Bearing float64 // °, direction the wind blows from
	Speed   float64 // m/s
	Quality int
	E, N    float64 // m/s, direction the air moves
}

func NewWindData(s telemetry.Snapshot) *WindData {
	e, n := wind.SpeedVector{Bearing: s.Bearing, Norm: s.Speed}.Components()
	return &WindData{T: s.T, Bearing: s.Bearing, Speed: s.Speed, Quality: s.Quality, E: e, N: n}
}

// RoomPublisher broadcasts snapshots to the browsers in a Room.
type RoomPublisher struct {
	Room *Room
}

func (p RoomPublisher) Publish(s telemetry.Snapshot) error {
	msg, err := json.Marshal(NewWindData(s))
	if err != nil {
		return err
	}
	if !p.Room.Forward(msg) {
		log.Println("WindWeb: Room busy, message dropped")
	}
	return nil
}
