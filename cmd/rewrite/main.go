// Command rewrite runs the per-client HTTP rewrite proxy.
package main

import "github.com/devproxy/rewriteproxy/pkg/cli"

func main() {
	cli.Execute()
}
