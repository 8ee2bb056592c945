// Package status implements the file based status channel shared by the
// controller and display processes.
//
// A Channel stores a fixed-shape record as one field per line. Reads never
// fail the caller on bad data: a missing, truncated, overlong or unparseable
// file is rewritten with the channel's default record, which is returned
// instead. There is no locking between processes; a record caught mid-write
// heals to the default and the writer's next update restores it.
//
// Typed stores wrap a Channel for each record: ControllerStore (3 lines),
// RequestStore (1 line) and WebStore (1 line).
package status
