package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["snapshots list"] = snapshotsList
	lib.Args["snapshots list"] = snapshotsListArgs{}
}

type snapshotsListArgs struct {
	lib.ScopeArgs
	Relative bool `arg:"-r,--relative" default:"false" help:"show snapshot age instead of start time"`
}

func (snapshotsListArgs) Description() string {
	return "\nlist ec2 snapshots\n"
}

func snapshotsList() {
	var args snapshotsListArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	err = o.ListSnapshots(ctx, args.Purpose, args.Relative)
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
