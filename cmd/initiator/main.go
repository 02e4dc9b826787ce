package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"go.uber.org/zap"

	"github.com/bobrnor/crawlinit/internal/config"
	"github.com/bobrnor/crawlinit/internal/initiator"
	"github.com/bobrnor/crawlinit/internal/logging"
	"github.com/bobrnor/crawlinit/internal/queue"
	"github.com/bobrnor/crawlinit/internal/robots"
	"github.com/bobrnor/crawlinit/internal/runid"
	"github.com/bobrnor/crawlinit/internal/store"
)

func newSession(cfg config.Config) (*session.Session, error) {
	return session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
}

// build wires the backends selected in cfg. The returned closers must be
// closed on shutdown.
func build(cfg config.Config, logger *zap.Logger) (*initiator.Initiator, []io.Closer, error) {
	var (
		s       store.Store
		q       queue.Publisher
		closers []io.Closer
		sess    *session.Session
	)

	awsSession := func() (*session.Session, error) {
		if sess != nil {
			return sess, nil
		}
		var err error
		sess, err = newSession(cfg)
		return sess, err
	}

	switch cfg.StoreBackend {
	case config.BackendRedis:
		rs := store.NewRedisStore(cfg.RedisAddr, cfg.VisitedTTL, logger)
		closers = append(closers, rs)
		s = rs
	default:
		as, err := awsSession()
		if err != nil {
			return nil, nil, fmt.Errorf("create aws session: %w", err)
		}
		s = store.NewDynamoStore(as, cfg.TableName, logger)
	}

	switch cfg.QueueBackend {
	case config.BackendKafka:
		kp := queue.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		closers = append(closers, kp)
		q = kp
	default:
		as, err := awsSession()
		if err != nil {
			return nil, nil, fmt.Errorf("create aws session: %w", err)
		}
		q = queue.NewSQSPublisher(as, cfg.QueueURL, cfg.Sender, logger)
	}

	var opts []initiator.Option
	if cfg.RobotsCheck {
		opts = append(opts, initiator.WithRobots(robots.NewChecker(nil, cfg.UserAgent, logger)))
	}

	return initiator.New(s, q, runid.Generate, logger, opts...), closers, nil
}

// runLocal seeds one crawl from the command line and prints the response.
func runLocal(ctx context.Context, in *initiator.Initiator, rootURL string, out io.Writer) error {
	resp, err := in.Initiate(ctx, initiator.Request{RootURL: rootURL})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func main() {
	rootURL := flag.String("url", "", "root url to crawl (local mode)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalln("Bad config:", err.Error())
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalln("Can't create logger:", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	in, closers, err := build(cfg, logger)
	if err != nil {
		logger.Fatal("Can't build initiator", zap.Error(err))
	}
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("close failed", zap.Error(err))
			}
		}
	}()

	if fn := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); fn != "" {
		logger.Info("invoked as lambda", zap.String("function", fn))
		lambda.Start(in.Handle)
		return
	}

	if *rootURL == "" {
		logger.Fatal("-url is required outside lambda")
	}
	if err := runLocal(context.Background(), in, *rootURL, os.Stdout); err != nil {
		logger.Fatal("crawl initiation failed", zap.Error(err))
	}
}
