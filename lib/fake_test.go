package lib

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
)

// fakeEC2 is an in memory ec2 backend. Stopping and pending instances settle
// into stopped and running the next time they are described by id.
type fakeEC2 struct {
	instances []ec2types.Instance
	volumes   []ec2types.Volume
	snapshots []ec2types.Snapshot

	pageSize    int
	hideCreated bool
	keepDeleted bool
	describeErr error

	failStart  map[string]error
	failStop   map[string]error
	failCreate map[string]error
	failDelete map[string]error

	calls          []string
	created        []*ec2.CreateSnapshotInput
	instancePages  int
	nextSnapshotID int
	deleted        map[string]bool
}

func apiError(code, msg string) error {
	return &smithy.GenericAPIError{Code: code, Message: msg}
}

func newInstance(id, purpose string, state ec2types.InstanceStateName) ec2types.Instance {
	instance := ec2types.Instance{
		InstanceId:    aws.String(id),
		InstanceType:  ec2types.InstanceTypeT2Micro,
		Placement:     &ec2types.Placement{AvailabilityZone: aws.String("us-east-1a")},
		State:         &ec2types.InstanceState{Name: state},
		PublicDnsName: aws.String(""),
	}
	if state == ec2types.InstanceStateNameRunning {
		instance.PublicDnsName = aws.String(id + ".compute.amazonaws.com")
	}
	if purpose != "" {
		instance.Tags = []ec2types.Tag{
			{Key: aws.String("Name"), Value: aws.String(id)},
			{Key: aws.String(PurposeTag), Value: aws.String(purpose)},
		}
	}
	return instance
}

func newVolume(id string, size int32, encrypted bool, instanceIDs ...string) ec2types.Volume {
	volume := ec2types.Volume{
		VolumeId:  aws.String(id),
		Size:      aws.Int32(size),
		Encrypted: aws.Bool(encrypted),
		State:     ec2types.VolumeStateInUse,
	}
	for _, instanceID := range instanceIDs {
		volume.Attachments = append(volume.Attachments, ec2types.VolumeAttachment{
			InstanceId: aws.String(instanceID),
			VolumeId:   aws.String(id),
		})
	}
	return volume
}

func newSnapshot(id, volumeID string, state ec2types.SnapshotState, start time.Time) ec2types.Snapshot {
	progress := "100%"
	if state == ec2types.SnapshotStatePending {
		progress = "42%"
	}
	return ec2types.Snapshot{
		SnapshotId: aws.String(id),
		VolumeId:   aws.String(volumeID),
		State:      state,
		Progress:   aws.String(progress),
		StartTime:  aws.Time(start),
	}
}

func (r *Report) count(outcome Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

func filterValue(filters []ec2types.Filter, name string) (string, bool) {
	for _, f := range filters {
		if aws.ToString(f.Name) == name && len(f.Values) > 0 {
			return f.Values[0], true
		}
	}
	return "", false
}

func cloneInstance(instance ec2types.Instance) ec2types.Instance {
	if instance.State != nil {
		instance.State = &ec2types.InstanceState{Name: instance.State.Name}
	}
	return instance
}

func (f *fakeEC2) page(n int, token *string) (int, int, *string) {
	start := 0
	if token != nil {
		start, _ = strconv.Atoi(*token)
	}
	end := n
	if f.pageSize > 0 && start+f.pageSize < n {
		end = start + f.pageSize
		return start, end, aws.String(strconv.Itoa(end))
	}
	return start, end, nil
}

func (f *fakeEC2) setState(id string, state ec2types.InstanceStateName) {
	for i := range f.instances {
		if aws.ToString(f.instances[i].InstanceId) == id {
			f.instances[i].State = &ec2types.InstanceState{Name: state}
		}
	}
}

func (f *fakeEC2) state(id string) ec2types.InstanceStateName {
	for _, instance := range f.instances {
		if aws.ToString(instance.InstanceId) == id {
			return EC2State(instance)
		}
	}
	return ""
}

func (f *fakeEC2) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	if len(params.InstanceIds) > 0 {
		var res []ec2types.Instance
		for _, instance := range f.instances {
			id := aws.ToString(instance.InstanceId)
			if slices.Contains(params.InstanceIds, id) {
				res = append(res, cloneInstance(instance))
				switch EC2State(instance) {
				case ec2types.InstanceStateNameStopping:
					f.setState(id, ec2types.InstanceStateNameStopped)
				case ec2types.InstanceStateNamePending:
					f.setState(id, ec2types.InstanceStateNameRunning)
				}
			}
		}
		return &ec2.DescribeInstancesOutput{Reservations: []ec2types.Reservation{{Instances: res}}}, nil
	}
	f.instancePages++
	var matched []ec2types.Instance
	for _, instance := range f.instances {
		keep := true
		for _, filter := range params.Filters {
			key, ok := strings.CutPrefix(aws.ToString(filter.Name), "tag:")
			if !ok {
				return nil, fmt.Errorf("unsupported filter %s", aws.ToString(filter.Name))
			}
			if EC2GetTag(instance.Tags, key, "") != filter.Values[0] {
				keep = false
			}
		}
		if keep {
			matched = append(matched, cloneInstance(instance))
		}
	}
	start, end, next := f.page(len(matched), params.NextToken)
	var reservations []ec2types.Reservation
	for _, instance := range matched[start:end] {
		reservations = append(reservations, ec2types.Reservation{Instances: []ec2types.Instance{instance}})
	}
	return &ec2.DescribeInstancesOutput{Reservations: reservations, NextToken: next}, nil
}

func (f *fakeEC2) DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	instanceID, _ := filterValue(params.Filters, "attachment.instance-id")
	var matched []ec2types.Volume
	for _, volume := range f.volumes {
		for _, attachment := range volume.Attachments {
			if aws.ToString(attachment.InstanceId) == instanceID {
				matched = append(matched, volume)
				break
			}
		}
	}
	start, end, next := f.page(len(matched), params.NextToken)
	return &ec2.DescribeVolumesOutput{Volumes: matched[start:end], NextToken: next}, nil
}

func (f *fakeEC2) DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	volumeID, _ := filterValue(params.Filters, "volume-id")
	var matched []ec2types.Snapshot
	for _, snapshot := range f.snapshots {
		if aws.ToString(snapshot.VolumeId) == volumeID {
			matched = append(matched, snapshot)
		}
	}
	start, end, next := f.page(len(matched), params.NextToken)
	return &ec2.DescribeSnapshotsOutput{Snapshots: matched[start:end], NextToken: next}, nil
}

func (f *fakeEC2) StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error) {
	id := params.InstanceIds[0]
	f.calls = append(f.calls, "start "+id)
	if err := f.failStart[id]; err != nil {
		return nil, err
	}
	if f.state(id) == ec2types.InstanceStateNameStopped {
		f.setState(id, ec2types.InstanceStateNamePending)
	}
	return &ec2.StartInstancesOutput{}, nil
}

func (f *fakeEC2) StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	id := params.InstanceIds[0]
	f.calls = append(f.calls, "stop "+id)
	if err := f.failStop[id]; err != nil {
		return nil, err
	}
	if f.state(id) == ec2types.InstanceStateNameRunning {
		f.setState(id, ec2types.InstanceStateNameStopping)
	}
	return &ec2.StopInstancesOutput{}, nil
}

func (f *fakeEC2) CreateSnapshot(ctx context.Context, params *ec2.CreateSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.CreateSnapshotOutput, error) {
	volumeID := aws.ToString(params.VolumeId)
	f.calls = append(f.calls, "snapshot "+volumeID)
	if err := f.failCreate[volumeID]; err != nil {
		return nil, err
	}
	f.created = append(f.created, params)
	f.nextSnapshotID++
	id := fmt.Sprintf("snap-new%d", f.nextSnapshotID)
	if !f.hideCreated {
		f.snapshots = append(f.snapshots, newSnapshot(id, volumeID, ec2types.SnapshotStatePending, time.Now()))
	}
	return &ec2.CreateSnapshotOutput{SnapshotId: aws.String(id), VolumeId: params.VolumeId, State: ec2types.SnapshotStatePending}, nil
}

func (f *fakeEC2) DeleteSnapshot(ctx context.Context, params *ec2.DeleteSnapshotInput, optFns ...func(*ec2.Options)) (*ec2.DeleteSnapshotOutput, error) {
	id := aws.ToString(params.SnapshotId)
	f.calls = append(f.calls, "delete "+id)
	if err := f.failDelete[id]; err != nil {
		return nil, err
	}
	if f.deleted[id] {
		return nil, apiError("InvalidSnapshot.NotFound", fmt.Sprintf("The snapshot '%s' does not exist.", id))
	}
	if f.deleted == nil {
		f.deleted = map[string]bool{}
	}
	f.deleted[id] = true
	if f.keepDeleted {
		return &ec2.DeleteSnapshotOutput{}, nil
	}
	var keep []ec2types.Snapshot
	for _, snapshot := range f.snapshots {
		if aws.ToString(snapshot.SnapshotId) != id {
			keep = append(keep, snapshot)
		}
	}
	f.snapshots = keep
	return &ec2.DeleteSnapshotOutput{}, nil
}
