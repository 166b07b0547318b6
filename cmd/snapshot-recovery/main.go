package main

import "github.com/vietddude/snapshot-recovery/internal/cli"

func main() {
	cli.Execute()
}
