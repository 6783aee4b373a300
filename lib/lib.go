package lib

import (
	"sort"
	"strings"
)

var Commands = make(map[string]func())

var Args = make(map[string]ArgsStruct)

type ArgsStruct interface {
	Description() string
}

// ScopeArgs are accepted by every command. Embed it in a go-arg struct.
type ScopeArgs struct {
	Purpose string `arg:"--purpose" help:"only resources for this purpose (tag purpose:<name>)"`
	Profile string `arg:"--profile,env:SHOTTY_PROFILE" help:"aws shared config profile"`
	Region  string `arg:"--region,env:SHOTTY_REGION" help:"aws region"`
}

// ForceArgs are accepted by state changing batch commands.
type ForceArgs struct {
	Force bool `arg:"--force" default:"false" help:"act on every instance when --purpose is omitted"`
}

func (a ScopeArgs) SessionOptions() SessionOptions {
	return SessionOptions{Profile: a.Profile, Region: a.Region}
}

// CommandNames returns the registered commands sorted by group then verb.
func CommandNames() []string {
	var names []string
	for k := range Commands {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// CommandKey joins a group and a verb into the key used by Commands.
func CommandKey(group, verb string) string {
	return strings.TrimSpace(group + " " + verb)
}
