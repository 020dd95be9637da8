package main

import "github.com/tonekit/tonekit/cmd"

func main() {
	cmd.Execute()
}
