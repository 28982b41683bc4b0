// Package input connects a host's raw DOM events to the editor.
//
// Loop is the single goroutine every editor callback runs on. Debouncer
// coalesces bursts through the loop's timers. Translator turns host events
// (already filtered to the editable root) into semantic bus events.
package input
