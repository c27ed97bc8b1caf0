// Package ui implements a terminal watcher for migration runs using bubbletea's Elm architecture.
//
// The [Model] renders a single-view live log of the run: a spinner while
// records move through the pipeline, one styled line per terminal record
// outcome (migrated, skipped, failed), and a closing summary once the
// engine finishes.
//
// Progress updates flow through a channel from the migration Engine,
// providing non-blocking status reporting; the watcher pulls one update per
// message in the standard Init/Update/View loop and quits on q or ctrl+c.
package ui
