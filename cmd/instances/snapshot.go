package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances snapshot"] = instancesSnapshot
	lib.Args["instances snapshot"] = instancesSnapshotArgs{}
}

type instancesSnapshotArgs struct {
	lib.ScopeArgs
	lib.ForceArgs
}

func (instancesSnapshotArgs) Description() string {
	return "\ncreate snapshots of all volumes, stopping running instances one at a time while they are taken\n"
}

func instancesSnapshot() {
	var args instancesSnapshotArgs
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
	report, err := o.SnapshotInstances(ctx, scope)
	report.Log()
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
