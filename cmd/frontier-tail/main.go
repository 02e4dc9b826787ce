// frontier-tail long-polls the crawl queue and logs every message it sees.
// Messages stay on the queue unless -ack is given.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/config"
	"github.com/bobrnor/crawlinit/internal/logging"
	"github.com/bobrnor/crawlinit/internal/model"
)

const receiveBackoff = 30 * time.Second

type tailer struct {
	client          sqsiface.SQSAPI
	queueURL        string
	waitTimeSeconds int64
	ack             bool
	max             int
	backoff         time.Duration
	logger          *zap.Logger
}

// loop returns when ctx is done or max messages have been seen.
func (t *tailer) loop(ctx context.Context) int {
	seen := 0
	for {
		if ctx.Err() != nil {
			return seen
		}

		result, err := t.client.ReceiveMessageWithContext(ctx, &sqs.ReceiveMessageInput{
			AttributeNames:        aws.StringSlice([]string{"All"}),
			MaxNumberOfMessages:   aws.Int64(10),
			MessageAttributeNames: aws.StringSlice([]string{"All"}),
			QueueUrl:              aws.String(t.queueURL),
			WaitTimeSeconds:       aws.Int64(t.waitTimeSeconds),
		})
		if err != nil {
			if ctx.Err() != nil {
				return seen
			}
			t.logger.Warn("Can't receive message from sqs", zap.Error(err))
			select {
			case <-ctx.Done():
				return seen
			case <-time.After(t.backoff):
			}
			continue
		}

		for _, m := range result.Messages {
			if m == nil || m.Body == nil {
				t.logger.Warn("Empty message", zap.String("message", litter.Sdump(m)))
				continue
			}
			seen++

			var decodedBody model.CrawlMessage
			if err := json.Unmarshal([]byte(*m.Body), &decodedBody); err != nil {
				t.logger.Warn("Can't unmarshal message",
					zap.String("message", litter.Sdump(m)),
					zap.Error(err))
			} else {
				t.logger.Info("frontier message",
					zap.String("messageId", aws.StringValue(m.MessageId)),
					zap.String("url", decodedBody.VisitedURL),
					zap.String("sourceUrl", decodedBody.SourceURL),
					zap.String("rootUrl", decodedBody.RootURL),
					zap.String("runId", decodedBody.RunID),
					zap.Int("depth", decodedBody.Depth))
			}

			if t.ack {
				_, err := t.client.DeleteMessageWithContext(ctx, &sqs.DeleteMessageInput{
					QueueUrl:      aws.String(t.queueURL),
					ReceiptHandle: m.ReceiptHandle,
				})
				if err != nil {
					t.logger.Warn("Can't delete message from sqs",
						zap.String("messageId", aws.StringValue(m.MessageId)),
						zap.Error(err))
				}
			}

			if t.max > 0 && seen >= t.max {
				return seen
			}
		}
	}
}

func main() {
	ack := flag.Bool("ack", false, "delete messages after logging them")
	maxMessages := flag.Int("max", 0, "stop after this many messages (0 means run until interrupted)")
	flag.Parse()

	cfg, err := config.LoadQueue()
	if err != nil {
		log.Fatalln("Bad config:", err.Error())
	}
	if cfg.QueueBackend != config.BackendSQS {
		log.Fatalln("frontier-tail only supports the sqs queue backend")
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalln("Can't create logger:", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	s, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		logger.Fatal("Can't create sqs client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	t := &tailer{
		client:          sqs.New(s),
		queueURL:        cfg.QueueURL,
		waitTimeSeconds: cfg.SQSLongpollTimeoutInSec,
		ack:             *ack,
		max:             *maxMessages,
		backoff:         receiveBackoff,
		logger:          logger,
	}
	seen := t.loop(ctx)
	logger.Info("frontier-tail stopped", zap.Int("messages", seen))
}
