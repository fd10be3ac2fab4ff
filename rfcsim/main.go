// Command rfcsim replays register access traces on register file caches.
package main

import "github.com/sarchlab/rfcache/rfcsim/cmd"

func main() {
	cmd.Execute()
}
