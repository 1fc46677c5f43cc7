// Package ui contains the Bubble Tea program that renders threads.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function (key presses, resizes, window states, item source events).
//   - Key handling lives in navigation.go (scrolling, thread focus, expansion,
//     selection, sort) and input.go (the search prompt).
//
// State ownership:
//   - The state store (internal/state) holds selection, expansion and the
//     item collection. rootthread.Controller rebuilds the tree whenever the
//     store changes and publishes it to Model.onThread.
//   - window.Window maps the tree onto the terminal body. It reads scroll and
//     resize notifications from scrollView and recomputes after a debounce on
//     a timer goroutine; those states reach Update through a single-slot
//     channel pumped by waitForWindowState. Recomputes triggered by Update
//     itself are applied synchronously.
//   - After every recompute the visible blocks are rendered and measured, and
//     changed heights are fed back into the window until they settle.
//
// Item source:
//   - A source.Watcher streams lifecycle events; Update waits for those events
//     and hands them to the dispatcher, which drives the controller.
package ui
