// Package main is the entry point for the image-finder command line client.
package main

import (
	"github.com/ytget/image-finder/cmd/image-finder/cmd"
)

func main() {
	cmd.Execute()
}
