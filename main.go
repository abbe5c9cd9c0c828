// flexdur converts durations between human-readable and numeric forms.
package main

import (
	"fmt"
	"os"

	"github.com/jparise/flexdur/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
