// Package httpapi exposes a view model over HTTP: POST /download triggers a
// download, GET /state and GET /artifact read the observable state, and the
// usual probes and Prometheus metrics are mounted alongside.
package httpapi
