package communication

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"bikeprep/queryhandlers/statistics"
)

const (
	publisherType         = "report-publisher"
	contentTypeJson       = "application/json"
	defaultPublishTimeout = 5 * time.Second
)

// messageBroker operations of RabbitMQ used to publish the report
type messageBroker interface {
	DeclareNonAnonymousQueues(queuesConfig []QueueDeclarationConfig) error
	DeclareExchanges(exchangesConfig []ExchangeDeclarationConfig) error
	Bind(queueName string, exchangeName string, routingKey string) error
	PublishMessageInQueue(ctx context.Context, queueName string, message []byte, contentType string) error
	PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error
	KillBadBunny() error
}

// ReportPublisher publishes the statistics report of a run in RabbitMQ
type ReportPublisher struct {
	runID  string
	config ReportConfig
	broker messageBroker
}

// NewReportPublisher connects to RabbitMQ and declares the queue, and the exchange if any, of the report
func NewReportPublisher(runID string, reportConfig ReportConfig) (*ReportPublisher, error) {
	rabbitMQ, err := NewRabbitMQ(reportConfig.RabbitURL)
	if err != nil {
		return nil, err
	}

	reportPublisher := newReportPublisher(runID, reportConfig, rabbitMQ)
	err = reportPublisher.declare()
	if err != nil {
		_ = rabbitMQ.KillBadBunny()
		return nil, err
	}
	return reportPublisher, nil
}

func newReportPublisher(runID string, reportConfig ReportConfig, broker messageBroker) *ReportPublisher {
	if reportConfig.PublishTimeout <= 0 {
		reportConfig.PublishTimeout = defaultPublishTimeout
	}
	if reportConfig.Publishing.ContentType == "" {
		reportConfig.Publishing.ContentType = contentTypeJson
	}

	return &ReportPublisher{
		runID:  runID,
		config: reportConfig,
		broker: broker,
	}
}

func (rp *ReportPublisher) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[publisher: %s][runID: %s][method: %s][status: ERROR] %s: %s", publisherType, rp.runID, method, message, err.Error())
	}
	return fmt.Sprintf("[publisher: %s][runID: %s][method: %s][status: OK] %s", publisherType, rp.runID, method, message)
}

// declare declares the report queue. If an exchange is configured it is declared and bound to the queue
func (rp *ReportPublisher) declare() error {
	err := rp.broker.DeclareNonAnonymousQueues([]QueueDeclarationConfig{rp.config.Queue})
	if err != nil {
		log.Error(rp.getLogMessage("declare", "error declaring queues", err))
		return err
	}

	if rp.config.Exchange.Name == "" {
		return nil
	}

	err = rp.broker.DeclareExchanges([]ExchangeDeclarationConfig{rp.config.Exchange})
	if err != nil {
		log.Error(rp.getLogMessage("declare", "error declaring exchanges", err))
		return err
	}

	return rp.broker.Bind(rp.config.Queue.Name, rp.config.Exchange.Name, rp.config.Publishing.RoutingKey)
}

// PublishReport sends the report as JSON
func (rp *ReportPublisher) PublishReport(ctx context.Context, report *statistics.Report) error {
	reportBytes, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("error marshalling statistics report: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, rp.config.PublishTimeout)
	defer cancel()

	if rp.config.Exchange.Name != "" {
		err = rp.broker.PublishMessageInExchange(ctx, rp.config.Exchange.Name, rp.config.Publishing.RoutingKey, reportBytes, rp.config.Publishing.ContentType)
	} else {
		err = rp.broker.PublishMessageInQueue(ctx, rp.config.Queue.Name, reportBytes, rp.config.Publishing.ContentType)
	}
	if err != nil {
		log.Error(rp.getLogMessage("PublishReport", "error publishing statistics report", err))
		return err
	}

	log.Info(rp.getLogMessage("PublishReport", "statistics report published", nil))
	return nil
}

func (rp *ReportPublisher) Close() error {
	return rp.broker.KillBadBunny()
}
