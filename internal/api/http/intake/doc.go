// Package intake implements the settings intake service: a short-lived HTTP
// listener that accepts one alarm configuration per cycle.
package intake
