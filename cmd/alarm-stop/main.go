package main

import "github.com/oshokin/alarm-clock/cmd/alarm-stop/cmd"

func main() {
	cmd.Execute()
}
