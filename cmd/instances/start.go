package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances start"] = instancesStart
	lib.Args["instances start"] = instancesStartArgs{}
}

type instancesStartArgs struct {
	lib.ScopeArgs
}

func (instancesStartArgs) Description() string {
	return "\nstart ec2 instances\n"
}

func instancesStart() {
	var args instancesStartArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	report, err := o.StartInstances(ctx, args.Purpose)
	report.Log()
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
