// Command constitution-api serves the constitution questionnaire over HTTP and
// provides the migrate, seed and score maintenance commands.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
