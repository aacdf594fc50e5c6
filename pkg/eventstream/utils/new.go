// Package eventstreamutils is the eventstream utility package
package eventstreamutils

import (
	"fmt"

	"github.com/supportbuddyx/supportbuddy/pkg/eventstream"
	"github.com/supportbuddyx/supportbuddy/pkg/eventstream/kafka"
	"github.com/supportbuddyx/supportbuddy/pkg/eventstream/nop"
)

type NewPublisherOpts struct {
	ProviderType string
	Brokers      string
	Topic        string
}

func NewPublisher(o *NewPublisherOpts) (eventstream.Publisher, error) {
	switch o.ProviderType {
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: o.Brokers,
			Topic:   o.Topic,
		})
	case "nop", "":
		return nop.NewPublisher(), nil
	default:
		return nil, fmt.Errorf("unsupported events provider: %s", o.ProviderType)
	}
}
