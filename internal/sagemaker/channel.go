package sagemaker

import (
	"fmt"
	"strings"
)

const (
	// ContentTypeRecordIO is the content type of every RecordIO channel.
	ContentTypeRecordIO = "application/x-recordio"
	// ContentTypeCSV is the content type of CSV channels.
	ContentTypeCSV = "text/csv"

	S3DataTypePrefix            = "S3Prefix"
	DistributionFullyReplicated = "FullyReplicated"
)

// S3DataSource locates a channel's data in S3.
type S3DataSource struct {
	S3Uri      string `json:"S3Uri"`
	S3DataType string `json:"S3DataType"`
	// S3DataDistributionType is omitted from the encoded form when empty.
	S3DataDistributionType string `json:"S3DataDistributionType,omitempty"`
}

// DataSource wraps the S3 data source of a channel.
type DataSource struct {
	S3DataSource S3DataSource `json:"S3DataSource"`
}

// Channel is one named training input.
type Channel struct {
	ChannelName string     `json:"ChannelName"`
	DataSource  DataSource `json:"DataSource"`
	ContentType string     `json:"ContentType"`
}

// RecordIOTrainingInput returns a fully replicated RecordIO channel reading
// every object under s3URI.
func RecordIOTrainingInput(name, s3URI string) Channel {
	return Channel{
		ChannelName: name,
		DataSource: DataSource{S3DataSource: S3DataSource{
			S3Uri:                  s3URI,
			S3DataType:             S3DataTypePrefix,
			S3DataDistributionType: DistributionFullyReplicated,
		}},
		ContentType: ContentTypeRecordIO,
	}
}

// TrainingInput returns a channel with the given content type and no
// distribution setting, leaving the platform default in effect.
func TrainingInput(name, s3URI, contentType string) Channel {
	return Channel{
		ChannelName: name,
		DataSource: DataSource{S3DataSource: S3DataSource{
			S3Uri:      s3URI,
			S3DataType: S3DataTypePrefix,
		}},
		ContentType: contentType,
	}
}

// S3URI joins a bucket and a key into an s3:// URI. bucket may be a
// pipeline parameter placeholder.
func S3URI(bucket fmt.Stringer, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, strings.TrimPrefix(key, "/"))
}
