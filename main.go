package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	sceneName := flag.String("scene", "pyramid", "scene name in prefabs/ (basename, .yaml optional)")
	debug := flag.Bool("debug", false, "draw bounds, contacts, constraints and velocities")
	watch := flag.Bool("watch", false, "reload the scene when prefabs/ changes on disk")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("impulse")

	game, err := NewGame(*sceneName, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}

	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
