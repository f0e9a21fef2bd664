package main

import (
	"log"

	"github.com/sgrishin/recruit-pilot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
