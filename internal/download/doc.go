// Package download saves selected images into a local directory. It tracks
// one task per URL, bounds concurrency with errgroup, validates that each
// payload decodes as an image, and reports task changes through a callback.
package download
