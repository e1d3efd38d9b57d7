// Command cabinet manages ordered containers stored on disk.
package main

import "github.com/mesh-intelligence/cabinet/internal/cli"

func main() {
	cli.Execute()
}
