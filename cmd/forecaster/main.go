package main

import "odds-forecaster/internal/cli"

func main() {
	cli.Execute()
}
