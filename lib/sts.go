package lib

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

type Identity struct {
	Account string
	Arn     string
	User    string
}

func StsIdentity(ctx context.Context, client STSAPI) (*Identity, error) {
	out, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	arn := aws.ToString(out.Arn)
	parts := strings.Split(arn, "/")
	return &Identity{
		Account: aws.ToString(out.Account),
		Arn:     arn,
		User:    parts[len(parts)-1],
	}, nil
}
