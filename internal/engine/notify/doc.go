// Package notify delivers marker and text change notifications.
//
// A Dispatcher keeps observers in registration order, keyed by a tag.Tag
// handle. The handle space is shared with markers but the two maps are
// independent: an observer is not a marker unless it is also attached as one.
//
// Delivery is synchronous and happens on the caller's goroutine. An observer
// may call back into the buffer that is notifying it; the nested mutation runs
// to completion, including its own notifications, before control returns to
// the outer callback. The Dispatcher counts splices in flight so observers can
// see how deeply they are nested:
//
//	d.Enter()
//	defer d.Leave()
//	d.Deliver(events...)
//
// A panicking observer is recovered and reported to the PanicHandler (the
// default logs it); the remaining observers still receive the event.
package notify
