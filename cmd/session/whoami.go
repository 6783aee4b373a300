package shotty

import (
	"context"

	"github.com/alexflint/go-arg"
	"github.com/snapshotalyzer/shotty/lib"
)

func init() {
	lib.Commands["session whoami"] = sessionWhoami
	lib.Args["session whoami"] = sessionWhoamiArgs{}
}

type sessionWhoamiArgs struct {
	Profile string `arg:"--profile,env:SHOTTY_PROFILE" help:"aws shared config profile"`
	Region  string `arg:"--region,env:SHOTTY_REGION" help:"aws region"`
}

func (sessionWhoamiArgs) Description() string {
	return "\nprint account, caller arn, region and profile of the session\n"
}

func sessionWhoami() {
	var args sessionWhoamiArgs
	arg.MustParse(&args)
	ctx := context.Background()
	o, err := lib.NewOrchestrator(ctx, lib.SessionOptions{Profile: args.Profile, Region: args.Region})
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
	err = o.Whoami(ctx)
	if err != nil {
		lib.Logger.Fatal("error:", err)
	}
}
