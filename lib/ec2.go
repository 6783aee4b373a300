package lib

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// EC2API is the subset of *ec2.Client used by shotty.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
	CreateSnapshot(ctx context.Context, params *ec2.CreateSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error)
	DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error)
}

var ErrUnscoped = errors.New("refusing to act on every instance: pass --purpose <name> or --force")

// Scope selects the instances a command acts on. An empty Purpose means every
// instance, which state changing batches only accept together with Force.
type Scope struct {
	Purpose string
	Force   bool
}

func (s Scope) Check() error {
	if s.Purpose == "" && !s.Force {
		return ErrUnscoped
	}
	return nil
}

func (s Scope) Filters() []ec2types.Filter {
	if s.Purpose == "" {
		return nil
	}
	return []ec2types.Filter{
		{Name: aws.String("tag:" + PurposeTag), Values: []string{s.Purpose}},
	}
}

// EC2ScopeInstances streams the instances tagged purpose=<purpose>, or every
// instance when purpose is empty. Pages are fetched as the caller ranges, so
// breaking early stops further requests. An error is yielded once and ends
// the sequence.
func EC2ScopeInstances(ctx context.Context, client EC2API, purpose string) iter.Seq2[ec2types.Instance, error] {
	return func(yield func(ec2types.Instance, error) bool) {
		paginator := ec2.NewDescribeInstancesPaginator(client, &ec2.DescribeInstancesInput{
			Filters: Scope{Purpose: purpose}.Filters(),
		})
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				Logger.Println("error:", err)
				yield(ec2types.Instance{}, err)
				return
			}
			for _, reservation := range out.Reservations {
				for _, instance := range reservation.Instances {
					if !yield(instance, nil) {
						return
					}
				}
			}
		}
	}
}

// EC2InstanceVolumes streams the volumes attached to an instance.
func EC2InstanceVolumes(ctx context.Context, client EC2API, instanceID string) iter.Seq2[ec2types.Volume, error] {
	return func(yield func(ec2types.Volume, error) bool) {
		paginator := ec2.NewDescribeVolumesPaginator(client, &ec2.DescribeVolumesInput{
			Filters: []ec2types.Filter{
				{Name: aws.String("attachment.instance-id"), Values: []string{instanceID}},
			},
		})
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				Logger.Println("error:", err)
				yield(ec2types.Volume{}, err)
				return
			}
			for _, volume := range out.Volumes {
				if !yield(volume, nil) {
					return
				}
			}
		}
	}
}

// EC2VolumeSnapshots streams the snapshots owned by this account that were
// taken from a volume.
func EC2VolumeSnapshots(ctx context.Context, client EC2API, volumeID string) iter.Seq2[ec2types.Snapshot, error] {
	return func(yield func(ec2types.Snapshot, error) bool) {
		paginator := ec2.NewDescribeSnapshotsPaginator(client, &ec2.DescribeSnapshotsInput{
			OwnerIds: []string{"self"},
			Filters: []ec2types.Filter{
				{Name: aws.String("volume-id"), Values: []string{volumeID}},
			},
		})
		for paginator.HasMorePages() {
			out, err := paginator.NextPage(ctx)
			if err != nil {
				Logger.Println("error:", err)
				yield(ec2types.Snapshot{}, err)
				return
			}
			for _, snapshot := range out.Snapshots {
				if !yield(snapshot, nil) {
					return
				}
			}
		}
	}
}

func EC2State(instance ec2types.Instance) ec2types.InstanceStateName {
	if instance.State == nil {
		return ""
	}
	return instance.State.Name
}

var (
	ec2WaitInterval = 15 * time.Second
	ec2WaitAttempts = 40
)

// EC2WaitState polls until the instance reports state. It gives up after
// ec2WaitAttempts polls, or as soon as the instance is terminated.
func EC2WaitState(ctx context.Context, client EC2API, instanceID string, state ec2types.InstanceStateName) error {
	progress := newProgress()
	defer progress.Done()
	start := time.Now()
	for range ec2WaitAttempts {
		out, err := client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			InstanceIds: []string{instanceID},
		})
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		var current ec2types.InstanceStateName
		for _, reservation := range out.Reservations {
			for _, instance := range reservation.Instances {
				if aws.ToString(instance.InstanceId) == instanceID {
					current = EC2State(instance)
				}
			}
		}
		if current == state {
			return nil
		}
		if current == ec2types.InstanceStateNameTerminated || current == ec2types.InstanceStateNameShuttingDown {
			err := fmt.Errorf("instance %s is %s, it will never be %s", instanceID, current, state)
			Logger.Println("error:", err)
			return err
		}
		progress.Update(fmt.Sprintf("waiting for %s to be %s, currently %s t+%d", instanceID, state, current, int(time.Since(start).Seconds())))
		select {
		case <-time.After(ec2WaitInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	err := fmt.Errorf("failed to wait for %s for instance %s", state, instanceID)
	Logger.Println("error:", err)
	return err
}
