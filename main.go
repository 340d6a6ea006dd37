package main

import "github.com/kozaktomas/pose-coach/cmd"

func main() {
	cmd.Execute()
}
