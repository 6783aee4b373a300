package lib

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/gofrs/uuid"
)

// RunIDTag is set on every snapshot created by one invocation so a batch can
// be found again later.
const RunIDTag = "shotty:run-id"

const JobsDone = "Job's done!"

// Orchestrator carries the backend session through every operation of one
// invocation. Report lines go to Out, diagnostics go to Logger.
type Orchestrator struct {
	EC2         EC2API
	STS         STSAPI
	Out         io.Writer
	Region      string
	Profile     string
	Description string
	RunID       string
	Color       bool
	Now         func() time.Time
}

func NewOrchestrator(ctx context.Context, opts SessionOptions) (*Orchestrator, error) {
	config, err := LoadConfig(ConfigPath())
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	opts = config.Merge(opts)
	cfg, err := Session(ctx, opts)
	if err != nil {
		return nil, err
	}
	runID, err := uuid.NewV4()
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	return &Orchestrator{
		EC2:         ec2.NewFromConfig(cfg),
		STS:         sts.NewFromConfig(cfg),
		Out:         os.Stdout,
		Region:      cfg.Region,
		Profile:     opts.Profile,
		Description: config.Description,
		RunID:       runID.String(),
		Color:       IsTerminal(os.Stdout),
		Now:         time.Now,
	}, nil
}

func (o *Orchestrator) printf(format string, v ...any) {
	_, _ = fmt.Fprintf(o.Out, format, v...)
}

func (o *Orchestrator) println(line string) {
	_, _ = fmt.Fprintln(o.Out, line)
}

func (o *Orchestrator) failure(verb, id string, err error) {
	line := fmt.Sprintf(" Could not %s %s. %s", verb, id, ErrorText(err))
	if o.Color {
		line = Red(line)
	}
	o.println(line)
}

func (o *Orchestrator) notice(line string) {
	if o.Color {
		line = Yellow(line)
	}
	o.println(line)
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

func (o *Orchestrator) ListInstances(ctx context.Context, purpose string) error {
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, purpose) {
		if err != nil {
			return err
		}
		o.println(InstanceLine(instance))
	}
	return nil
}

func (o *Orchestrator) ListVolumes(ctx context.Context, purpose string) error {
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, purpose) {
		if err != nil {
			return err
		}
		instanceID := aws.ToString(instance.InstanceId)
		for volume, err := range EC2InstanceVolumes(ctx, o.EC2, instanceID) {
			if err != nil {
				return err
			}
			o.println(VolumeLine(volume, instanceID))
		}
	}
	return nil
}

func (o *Orchestrator) ListSnapshots(ctx context.Context, purpose string, relative bool) error {
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, purpose) {
		if err != nil {
			return err
		}
		instanceID := aws.ToString(instance.InstanceId)
		for volume, err := range EC2InstanceVolumes(ctx, o.EC2, instanceID) {
			if err != nil {
				return err
			}
			volumeID := aws.ToString(volume.VolumeId)
			for snapshot, err := range EC2VolumeSnapshots(ctx, o.EC2, volumeID) {
				if err != nil {
					return err
				}
				o.println(SnapshotLine(snapshot, volumeID, instanceID, relative, o.now()))
			}
		}
	}
	return nil
}

// eachInstance runs fn on every instance in scope. A failing fn is printed
// and recorded, then the batch moves on. Only scope resolution errors are
// returned.
func (o *Orchestrator) eachInstance(ctx context.Context, purpose, action, progress string, fn func(ctx context.Context, id string) error) (*Report, error) {
	report := &Report{}
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, purpose) {
		if err != nil {
			return report, err
		}
		id := aws.ToString(instance.InstanceId)
		o.printf("%s %s...\n", progress, id)
		err = fn(ctx, id)
		if err != nil {
			o.failure(action, id, err)
			report.fail(id, action, err)
			continue
		}
		report.ok(id, action, "")
	}
	return report, nil
}

func (o *Orchestrator) start(ctx context.Context, id string) error {
	_, err := o.EC2.StartInstances(ctx, &ec2.StartInstancesInput{InstanceIds: []string{id}})
	return err
}

func (o *Orchestrator) stop(ctx context.Context, id string) error {
	_, err := o.EC2.StopInstances(ctx, &ec2.StopInstancesInput{InstanceIds: []string{id}})
	return err
}

func (o *Orchestrator) StartInstances(ctx context.Context, purpose string) (*Report, error) {
	return o.eachInstance(ctx, purpose, "start", "Starting", o.start)
}

func (o *Orchestrator) StopInstances(ctx context.Context, purpose string) (*Report, error) {
	return o.eachInstance(ctx, purpose, "stop", "Stopping", o.stop)
}

// RebootInstances stops each instance, waits for it to stop, then starts it.
// When the stop or the wait fails the start is not attempted.
func (o *Orchestrator) RebootInstances(ctx context.Context, purpose string) (*Report, error) {
	return o.eachInstance(ctx, purpose, "reboot", "Rebooting", func(ctx context.Context, id string) error {
		err := o.stop(ctx, id)
		if err != nil {
			return fmt.Errorf("stop failed: %w", err)
		}
		err = EC2WaitState(ctx, o.EC2, id, ec2types.InstanceStateNameStopped)
		if err != nil {
			return fmt.Errorf("stop did not finish: %w", err)
		}
		err = o.start(ctx, id)
		if err != nil {
			return fmt.Errorf("start failed: %w", err)
		}
		return nil
	})
}

// SnapshotInstances snapshots every volume of every instance in scope, one
// instance at a time. A running instance is stopped first and started again
// afterwards, even when snapshotting it failed. Volumes with a snapshot still
// pending are skipped.
func (o *Orchestrator) SnapshotInstances(ctx context.Context, scope Scope) (*Report, error) {
	err := scope.Check()
	if err != nil {
		return nil, err
	}
	report := &Report{}
	requested := map[string]bool{}
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, scope.Purpose) {
		if err != nil {
			return report, err
		}
		err = o.snapshotInstance(ctx, instance, requested, report)
		if err != nil {
			return report, err
		}
	}
	o.println(JobsDone)
	return report, nil
}

func (o *Orchestrator) snapshotInstance(ctx context.Context, instance ec2types.Instance, requested map[string]bool, report *Report) (err error) {
	id := aws.ToString(instance.InstanceId)
	if EC2State(instance) == ec2types.InstanceStateNameRunning {
		o.printf("Stopping %s...\n", id)
		stopErr := o.stop(ctx, id)
		if stopErr != nil {
			report.fail(id, "stop", stopErr)
			return fmt.Errorf("stop %s: %w", id, stopErr)
		}
		report.ok(id, "stop", "")
		defer func() {
			startErr := o.restart(ctx, id, report)
			if err == nil {
				err = startErr
			}
		}()
		waitErr := EC2WaitState(ctx, o.EC2, id, ec2types.InstanceStateNameStopped)
		if waitErr != nil {
			return fmt.Errorf("wait for %s to stop: %w", id, waitErr)
		}
	}
	for volume, volErr := range EC2InstanceVolumes(ctx, o.EC2, id) {
		if volErr != nil {
			return volErr
		}
		volErr = o.snapshotVolume(ctx, volume, requested, report)
		if volErr != nil {
			return volErr
		}
	}
	return nil
}

func (o *Orchestrator) restart(ctx context.Context, id string, report *Report) error {
	o.printf("Starting %s...\n", id)
	err := o.start(ctx, id)
	if err == nil {
		err = EC2WaitState(ctx, o.EC2, id, ec2types.InstanceStateNameRunning)
	}
	if err != nil {
		o.failure("start", id, err)
		report.fail(id, "start", err)
		return fmt.Errorf("start %s: %w", id, err)
	}
	report.ok(id, "start", "")
	return nil
}

func (o *Orchestrator) snapshotVolume(ctx context.Context, volume ec2types.Volume, requested map[string]bool, report *Report) error {
	volumeID := aws.ToString(volume.VolumeId)
	pending := requested[volumeID]
	if !pending {
		for snapshot, err := range EC2VolumeSnapshots(ctx, o.EC2, volumeID) {
			if err != nil {
				return err
			}
			if snapshot.State == ec2types.SnapshotStatePending {
				pending = true
				break
			}
		}
	}
	if pending {
		o.notice(fmt.Sprintf("  Skipping %s, snapshot already in progress", volumeID))
		report.skip(volumeID, "snapshot", "snapshot already in progress")
		return nil
	}
	o.printf("  Creating snapshot of %s\n", volumeID)
	description := o.Description
	if description == "" {
		description = DefaultDescription
	}
	tags := EC2TagsOf(volume.Tags)
	// the run id only goes on when it fits next to the copied volume tags
	if o.RunID != "" && (tags.Has(RunIDTag) || len(tags.EC2()) < EC2MaxTags) {
		tags.Set(RunIDTag, o.RunID)
	}
	input := &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(volumeID),
		Description: aws.String(description),
	}
	if snapshotTags := tags.EC2(); len(snapshotTags) > 0 {
		input.TagSpecifications = []ec2types.TagSpecification{
			{ResourceType: ec2types.ResourceTypeSnapshot, Tags: snapshotTags},
		}
	}
	out, err := o.EC2.CreateSnapshot(ctx, input)
	if err != nil {
		report.fail(volumeID, "snapshot", err)
		return fmt.Errorf("snapshot %s: %w", volumeID, err)
	}
	requested[volumeID] = true
	report.ok(volumeID, "snapshot", aws.ToString(out.SnapshotId))
	return nil
}

// DeleteSnapshots deletes every snapshot of every volume in scope. There is
// no confirmation and the first backend error ends the batch. A volume
// attached to several instances in scope is only handled once.
func (o *Orchestrator) DeleteSnapshots(ctx context.Context, scope Scope) (*Report, error) {
	err := scope.Check()
	if err != nil {
		return nil, err
	}
	report := &Report{}
	handled := map[string]bool{}
	for instance, err := range EC2ScopeInstances(ctx, o.EC2, scope.Purpose) {
		if err != nil {
			return report, err
		}
		for volume, err := range EC2InstanceVolumes(ctx, o.EC2, aws.ToString(instance.InstanceId)) {
			if err != nil {
				return report, err
			}
			volumeID := aws.ToString(volume.VolumeId)
			if handled[volumeID] {
				continue
			}
			handled[volumeID] = true
			err = o.deleteVolumeSnapshots(ctx, volumeID, report)
			if err != nil {
				return report, err
			}
		}
	}
	o.println(JobsDone)
	return report, nil
}

func (o *Orchestrator) deleteVolumeSnapshots(ctx context.Context, volumeID string, report *Report) error {
	// collect first so deletions do not shift the pages being read
	var ids []string
	for snapshot, err := range EC2VolumeSnapshots(ctx, o.EC2, volumeID) {
		if err != nil {
			return err
		}
		ids = append(ids, aws.ToString(snapshot.SnapshotId))
	}
	for _, id := range ids {
		o.printf("Deleting %s...\n", id)
		_, err := o.EC2.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{SnapshotId: aws.String(id)})
		if err != nil {
			report.fail(id, "delete", err)
			return fmt.Errorf("delete %s: %w", id, err)
		}
		report.ok(id, "delete", volumeID)
	}
	return nil
}

func (o *Orchestrator) Whoami(ctx context.Context) error {
	identity, err := StsIdentity(ctx, o.STS)
	if err != nil {
		return err
	}
	profile := o.Profile
	if profile == "" {
		profile = os.Getenv("AWS_PROFILE")
	}
	if profile == "" {
		profile = "default"
	}
	o.println(identity.Account + sep + identity.Arn + sep + o.Region + sep + profile)
	return nil
}
