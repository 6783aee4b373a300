package lib

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/dustin/go-humanize"
)

// TimeLayout matches strftime %c in the C locale.
const TimeLayout = "Mon Jan _2 15:04:05 2006"

const sep = ", "

func InstanceLine(instance ec2types.Instance) string {
	zone := ""
	if instance.Placement != nil {
		zone = aws.ToString(instance.Placement.AvailabilityZone)
	}
	return strings.Join([]string{
		aws.ToString(instance.InstanceId),
		string(instance.InstanceType),
		zone,
		string(EC2State(instance)),
		aws.ToString(instance.PublicDnsName),
		EC2GetTag(instance.Tags, PurposeTag, NoTag),
	}, sep)
}

func VolumeLine(volume ec2types.Volume, instanceID string) string {
	encrypted := "Not Encrypted"
	if aws.ToBool(volume.Encrypted) {
		encrypted = "Encrypted"
	}
	return strings.Join([]string{
		aws.ToString(volume.VolumeId),
		instanceID,
		string(volume.State),
		fmt.Sprintf("%dGiB", aws.ToInt32(volume.Size)),
		encrypted,
	}, sep)
}

// SnapshotLine renders the start time with TimeLayout in UTC, or as an age
// relative to now when relative is set.
func SnapshotLine(snapshot ec2types.Snapshot, volumeID, instanceID string, relative bool, now time.Time) string {
	started := ""
	if snapshot.StartTime != nil {
		if relative {
			started = humanize.RelTime(*snapshot.StartTime, now, "ago", "from now")
		} else {
			started = snapshot.StartTime.UTC().Format(TimeLayout)
		}
	}
	return strings.Join([]string{
		aws.ToString(snapshot.SnapshotId),
		volumeID,
		instanceID,
		string(snapshot.State),
		aws.ToString(snapshot.Progress),
		started,
	}, sep)
}
