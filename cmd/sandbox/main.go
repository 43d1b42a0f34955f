package main

import (
	"log"
	"os"

	"rigid3d/internal/config"
	"rigid3d/internal/game"
)

const defaultScene = "scenes/demo.yaml"

func main() {
	scenePath := defaultScene
	if len(os.Args) > 1 {
		scenePath = os.Args[1]
	}

	g := game.New(scenePath, config.DefaultPath)
	if err := g.Run(); err != nil {
		log.Fatal(err)
	}
}
