package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances delete_snap"] = instancesDeleteSnap
	lib.Args["instances delete_snap"] = instancesDeleteSnapArgs{}
}

type instancesDeleteSnapArgs struct {
	lib.ScopeArgs
	lib.ForceArgs
}

func (instancesDeleteSnapArgs) Description() string {
	return "\ndelete every snapshot of every volume attached to the instances\n"
}

func instancesDeleteSnap() {
	var args instancesDeleteSnapArgs
	p := arg.MustParse(&args)
	scope := lib.Scope{Purpose: args.Purpose, Force: args.Force}
	err := scope.Check()
	if err != nil {
		p.Fail(err.Error())
	}
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	report, err := o.DeleteSnapshots(ctx, scope)
	report.Log()
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
