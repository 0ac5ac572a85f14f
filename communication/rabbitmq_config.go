package communication

import "time"

// ReportConfig contains the parameters to publish the statistics report. Publishing is disabled
// when RabbitURL is empty
type ReportConfig struct {
	RabbitURL      string                    `yaml:"rabbit_url" envconfig:"RABBIT_URL"`
	Queue          QueueDeclarationConfig    `yaml:"queue" envconfig:"QUEUE"`
	Exchange       ExchangeDeclarationConfig `yaml:"exchange" envconfig:"EXCHANGE"`
	Publishing     PublishingConfig          `yaml:"publishing" envconfig:"PUBLISHING"`
	PublishTimeout time.Duration             `yaml:"publish_timeout" envconfig:"PUBLISH_TIMEOUT"`
}

// Enabled returns true if the report has to be published
func (rc ReportConfig) Enabled() bool {
	return rc.RabbitURL != ""
}

// QueueDeclarationConfig contains the parameters to declare a RabbitMQ queue
type QueueDeclarationConfig struct {
	Name             string `yaml:"name" envconfig:"NAME"`
	Durable          bool   `yaml:"durable" envconfig:"DURABLE"`
	DeleteWhenUnused bool   `yaml:"delete_when_unused" envconfig:"DELETE_WHEN_UNUSED"`
	Exclusive        bool   `yaml:"exclusive" envconfig:"EXCLUSIVE"`
	NoWait           bool   `yaml:"no_wait" envconfig:"NO_WAIT"`
}

// ExchangeDeclarationConfig contains the parameters to declare a RabbitMQ exchange. If Name is empty
// no exchange is declared and the report is published directly in the queue
type ExchangeDeclarationConfig struct {
	Name        string `yaml:"name" envconfig:"NAME"`
	Type        string `yaml:"type" envconfig:"TYPE"`
	Durable     bool   `yaml:"durable" envconfig:"DURABLE"`
	AutoDeleted bool   `yaml:"auto_deleted" envconfig:"AUTO_DELETED"`
	Internal    bool   `yaml:"internal" envconfig:"INTERNAL"`
	NoWait      bool   `yaml:"no_wait" envconfig:"NO_WAIT"`
}

// PublishingConfig config use it for publishing messages
type PublishingConfig struct {
	RoutingKey  string `yaml:"routing_key" envconfig:"ROUTING_KEY"`
	ContentType string `yaml:"content_type" envconfig:"CONTENT_TYPE"`
}
