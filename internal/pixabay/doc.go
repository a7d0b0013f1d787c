// Package pixabay implements the image search client for the Pixabay REST
// API: keyword search with pagination and raw image byte fetches, both gated
// by an optional rate limiter. No request is ever retried.
package pixabay
