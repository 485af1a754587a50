// Package api exposes the directory over HTTP. Handlers decode typed
// request bodies, call the directory and account services and write the
// {"success", "data", "message", "error"} envelope. Errors are mapped to
// status codes by their domain kind (StatusFor).
package api
