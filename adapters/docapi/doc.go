// Package docapi holds the transport-neutral HTTP controller for document
// generation. The http and router packages adapt it to net/http and
// go-router.
package docapi
