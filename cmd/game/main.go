package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Arc-Arena/internal/audio"
	"github.com/Garsondee/Arc-Arena/internal/game"
)

func main() {
	sim := game.New(time.Now().UnixNano(), game.DefaultConfig())

	snd := audio.NewManager()
	if err := snd.Initialize(); err != nil {
		log.Printf("audio unavailable: %v", err)
	} else {
		defer snd.Cleanup()
		sim.SetAudioSink(snd)
	}

	ebiten.SetWindowTitle("Arc Arena")
	ebiten.SetWindowSize(1920, 1080)
	if err := ebiten.RunGame(game.NewGame(sim)); err != nil {
		log.Fatal(err)
	}
}
