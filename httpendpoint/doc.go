// Package httpendpoint exposes a scheduleevent.Repository over HTTP with JSON bodies.
//
// Routes:
//
//	GET    /scheduleevent/        all schedule events
//	GET    /scheduleevent/{days}  schedule events due within [now, now+days]
//	POST   /scheduleevent/        create, answers 201 with a Location header
//	PUT    /scheduleevent/        overwrite description, isCompleted and dueDate of an existing event
//	DELETE /scheduleevent/{id}    delete, answers 404 if the event does not exist
//	GET    /health                liveness
//
// The collection routes work with and without the trailing slash.
package httpendpoint
