package main

import "github.com/unscatty/PianoViaR-sub000/cmd"

func main() {
	cmd.Execute()
}
