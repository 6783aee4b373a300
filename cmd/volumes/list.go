package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["volumes list"] = volumesList
	lib.Args["volumes list"] = volumesListArgs{}
}

type volumesListArgs struct {
	lib.ScopeArgs
}

func (volumesListArgs) Description() string {
	return "\nlist ec2 volumes\n"
}

func volumesList() {
	var args volumesListArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	err = o.ListVolumes(ctx, args.Purpose)
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
