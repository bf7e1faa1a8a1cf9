// Package log provides structured capture of assembly runs.
//
// Events are compact CBOR records with integer keys, written as a stream
// to a log file. A run is identified by a UUID assigned by the driver;
// every event carries it so interleaved runs can be separated afterwards.
//
// The Logger interface decouples the assembler from the sink: pass
// NoopLogger (or nil) to disable capture, FileLogger to persist events,
// or MultiLogger to fan out.
package log
