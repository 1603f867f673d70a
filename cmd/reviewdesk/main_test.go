package main

import (
	"os"
	"testing"
)

func TestMain_Execute(t *testing.T) {
	// Help
	os.Args = []string{"reviewdesk", "--help"}
	main()
}
