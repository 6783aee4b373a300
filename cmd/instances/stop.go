package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances stop"] = instancesStop
	lib.Args["instances stop"] = instancesStopArgs{}
}

type instancesStopArgs struct {
	lib.ScopeArgs
}

func (instancesStopArgs) Description() string {
	return "\nstop ec2 instances\n"
}

func instancesStop() {
	var args instancesStopArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	report, err := o.StopInstances(ctx, args.Purpose)
	report.Log()
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
