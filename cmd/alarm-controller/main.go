package main

import "github.com/oshokin/alarm-clock/cmd/alarm-controller/cmd"

func main() {
	cmd.Execute()
}
