package transitions_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/render/transitions"
)

func ExampleToDOT() {
	s, _ := avatar.Compute("1213")
	dot := transitions.ToDOT(&s, transitions.Options{})

	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line[:strings.Index(line, "[")]))
		}
	}
	// Output:
	// "1" -> "2"
	// "1" -> "3"
	// "2" -> "1"
}
