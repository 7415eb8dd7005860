package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type options struct {
	modelID string
	client  *bedrockruntime.Client
}

type Option func(*options)

// WithModel passes the Bedrock model ID to the client.
// Model IDs are listed at
// https://docs.aws.amazon.com/bedrock/latest/userguide/model-ids.html
func WithModel(modelID string) Option {
	return func(opts *options) {
		opts.modelID = modelID
	}
}

// WithClient allows setting a custom bedrockruntime client. If not set,
// a client is created from the default AWS configuration.
func WithClient(client *bedrockruntime.Client) Option {
	return func(opts *options) {
		opts.client = client
	}
}
