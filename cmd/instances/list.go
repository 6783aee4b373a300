package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances list"] = instancesList
	lib.Args["instances list"] = instancesListArgs{}
}

type instancesListArgs struct {
	lib.ScopeArgs
}

func (instancesListArgs) Description() string {
	return "\nlist ec2 instances\n"
}

func instancesList() {
	var args instancesListArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	err = o.ListInstances(ctx, args.Purpose)
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
