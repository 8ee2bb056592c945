package main

import "github.com/oshokin/alarm-clock/cmd/alarm-display/cmd"

func main() {
	cmd.Execute()
}
