package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["instances reboot"] = instancesReboot
	lib.Args["instances reboot"] = instancesRebootArgs{}
}

type instancesRebootArgs struct {
	lib.ScopeArgs
}

func (instancesRebootArgs) Description() string {
	return "\nstop ec2 instances, wait for them to stop, then start them\n"
}

func instancesReboot() {
	var args instancesRebootArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, args.SessionOptions())
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	report, err := o.RebootInstances(ctx, args.Purpose)
	report.Log()
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
