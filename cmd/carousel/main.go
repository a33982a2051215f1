package main

import "github.com/Carmen-Shannon/oxy-carousel/cmd/carousel/cmd"

func main() {
	cmd.Execute()
}
