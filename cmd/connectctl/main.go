// Package main is the entry point for the connectctl CLI client.
package main

import (
	"github.com/donaldgifford/connect-client/cmd/connectctl/cmd"
)

func main() {
	cmd.Execute()
}
