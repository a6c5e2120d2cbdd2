// GoLogo: assemble logos from a background and recolorable icon layers.
//
// Usage:
//
//	gologo init [--dir .]
//	gologo inspect <logo.json|logo.yaml|bundle.logopack>
//	gologo render --logo <path> -o logo.png [--ratio 0 --dir l --mul 500 ...]
//	gologo serve [--addr 127.0.0.1:8080]
//	gologo version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
