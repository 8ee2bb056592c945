// Package client talks to the controller's HTTP services from another host:
// alarm-set submits settings and alarm-stop sends the stop command.
package client
