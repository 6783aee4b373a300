package lib

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

type SessionOptions struct {
	Profile string
	Region  string
}

// Session loads one aws config for the invocation. Explicit keys in
// SHOTTY_ACCESS_KEY_ID and SHOTTY_SECRET_ACCESS_KEY win over the profile chain.
func Session(ctx context.Context, opts SessionOptions) (aws.Config, error) {
	var optFns []func(*config.LoadOptions) error
	if opts.Profile != "" {
		optFns = append(optFns, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Region != "" {
		optFns = append(optFns, config.WithRegion(opts.Region))
	}
	accessKeyID := os.Getenv("SHOTTY_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("SHOTTY_SECRET_ACCESS_KEY")
	if accessKeyID != "" && accessKeySecret != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, os.Getenv("SHOTTY_SESSION_TOKEN")),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		Logger.Println("error:", err)
		return aws.Config{}, err
	}
	return cfg, nil
}
