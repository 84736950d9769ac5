// Package panel is the interactive terminal control panel.
//
// Model is a Bubble Tea model that owns the view tree. On Init it fetches
// the controller's field list, builds one control per known field plus the
// solid-color palette, and then turns key presses into updates through a
// dispatch.Dispatcher.
//
// HTTP calls never run on the update loop: immediate sends are tea.Cmds and
// debounced sends run on the dispatcher's timers. Both report back only
// through the event bus, which the model drains with a tea.Cmd that waits
// for the next event.
//
// # Keys
//
//	tab / shift+tab   move between controls
//	←/→               toggle button, slider step, grid cursor
//	pgup / pgdn       slider by ten steps
//	enter / space     press the button under the cursor
//	e                 type a slider value
//	r                 fetch the field list again
//	q                 send pending edits and quit
package panel
