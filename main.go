package main

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/snapshotalyzer/shotty/cmd/instances"
	_ "github.com/snapshotalyzer/shotty/cmd/session"
	_ "github.com/snapshotalyzer/shotty/cmd/snapshots"
	_ "github.com/snapshotalyzer/shotty/cmd/volumes"
	"github.com/snapshotalyzer/shotty/lib"
)

func usage() {
	fmt.Println("shotty manages ec2 instances, volumes and snapshots")
	fmt.Println()
	for _, name := range lib.CommandNames() {
		desc := strings.TrimSpace(lib.Args[name].Description())
		fmt.Printf("  %-24s %s\n", name, desc)
	}
}

// commandArgs resolves the group and verb to a registered command and returns
// the argv its parser should see. Flag values are passed through untouched.
func commandArgs(argv []string) (string, []string, bool) {
	if len(argv) < 3 {
		return "", nil, false
	}
	cmd := lib.CommandKey(argv[1], argv[2])
	if _, ok := lib.Commands[cmd]; !ok {
		return "", nil, false
	}
	return cmd, append([]string{"shotty " + cmd}, argv[3:]...), true
}

func main() {
	if len(os.Args) < 3 || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage()
		os.Exit(1)
	}
	cmd, args, ok := commandArgs(os.Args)
	if !ok {
		usage()
		os.Exit(1)
	}
	os.Args = args
	lib.Commands[cmd]()
}
