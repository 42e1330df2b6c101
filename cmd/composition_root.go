package cmd

import (
	"errors"
	"log/slog"

	httpin "fieldservice/internal/adapters/in/http"
	kafkain "fieldservice/internal/adapters/in/kafka"
	kafkaout "fieldservice/internal/adapters/out/kafka"
	"fieldservice/internal/adapters/out/memory"
	"fieldservice/internal/adapters/out/otp"
	"fieldservice/internal/adapters/out/position"
	"fieldservice/internal/adapters/out/postgres"
	"fieldservice/internal/adapters/out/realtime"
	redisout "fieldservice/internal/adapters/out/redis"
	"fieldservice/internal/core/application/events"
	"fieldservice/internal/core/application/tracking"
	"fieldservice/internal/core/application/usecases/commands"
	"fieldservice/internal/core/application/usecases/queries"
	"fieldservice/internal/core/domain/services"
	"fieldservice/internal/core/ports"
	"fieldservice/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators of the service and
// builds the use cases on top of them.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	bus        *events.Bus
	locker     ports.JobLocker
	redis      goredis.UniversalClient

	writer   *kafkago.Writer
	producer *kafkaout.Producer

	positions  *position.PushSource
	hub        *realtime.Hub
	supervisor *tracking.Supervisor
	codes      otp.Generator
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	throttler, err := services.NewTelemetryThrottler(config.ThrottleInterval, config.ThrottleDistanceMeters)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		config:    config,
		logger:    logger,
		gormDB:    gormDB,
		bus:       events.NewBus(logger),
		positions: position.NewPushSource(),
		hub:       realtime.NewHub(logger),
		codes:     otp.NewGenerator(),
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.bus)

	if config.RedisAddr != "" {
		c.redis = goredis.NewClient(&goredis.Options{Addr: config.RedisAddr, Password: config.RedisPassword})
		c.locker = redisout.NewJobLocker(c.redis, config.LockTTL, logger)
	} else {
		c.locker = memory.NewJobLocker()
	}

	c.writer = kafkaout.NewWriter(config.KafkaBrokers...)
	c.producer = kafkaout.NewProducer(c.writer, logger)

	c.supervisor = tracking.NewSupervisor(
		throttler,
		c.positions,
		c.hub,
		c.uowFactory.Create().JobRepository(),
		tracking.NewMetrics(),
		logger,
	)

	c.bus.Subscribe(
		c.supervisor,
		events.NewJobChangedNotifier(c.hub),
		kafkaout.NewJobEventForwarder(c.producer, config.KafkaJobChangedTopic),
	)

	return c, nil
}

func (c *CompositionRoot) jobUoWFactory() commands.JobUoWFactory {
	return FuncJobUoWFactory(func() commands.JobUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) codeSender() ports.CodeSender {
	return kafkaout.NewCodeSender(c.producer, c.config.KafkaCodesTopic)
}

func (c *CompositionRoot) CreateCreateJobCommandHandler() commands.CreateJobCommandHandler {
	return commands.NewCreateJobCommandHandler(c.jobUoWFactory())
}

func (c *CompositionRoot) CreateVerifyVisitCommandHandler() commands.VerifyVisitCommandHandler {
	return commands.NewVerifyVisitCommandHandler(c.jobUoWFactory(), c.locker, c.positions, c.logger)
}

func (c *CompositionRoot) CreateAttemptTransitionCommandHandler() commands.AttemptTransitionCommandHandler {
	return commands.NewAttemptTransitionCommandHandler(
		c.jobUoWFactory(),
		c.locker,
		c.codes,
		c.codeSender(),
		c.CreateVerifyVisitCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateResendVisitCodeCommandHandler() commands.ResendVisitCodeCommandHandler {
	return commands.NewResendVisitCodeCommandHandler(c.jobUoWFactory(), c.codeSender())
}

func (c *CompositionRoot) CreateInitiateCashCollectionCommandHandler() commands.InitiateCashCollectionCommandHandler {
	return commands.NewInitiateCashCollectionCommandHandler(
		c.jobUoWFactory(), c.locker, c.codes, c.codeSender(), c.logger,
	)
}

func (c *CompositionRoot) CreateConfirmCashCollectionCommandHandler() commands.ConfirmCashCollectionCommandHandler {
	return commands.NewConfirmCashCollectionCommandHandler(c.jobUoWFactory(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateRequestPayoutCommandHandler() commands.RequestPayoutCommandHandler {
	notifier := kafkaout.NewPayoutNotifier(c.producer, c.config.KafkaPayoutRequestTopic)
	return commands.NewRequestPayoutCommandHandler(c.jobUoWFactory(), c.locker, notifier, c.logger)
}

func (c *CompositionRoot) CreateConfirmPayoutCommandHandler() commands.ConfirmPayoutCommandHandler {
	return commands.NewConfirmPayoutCommandHandler(c.jobUoWFactory(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateConfirmFinalSettlementCommandHandler() commands.ConfirmFinalSettlementCommandHandler {
	return commands.NewConfirmFinalSettlementCommandHandler(c.jobUoWFactory(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateGetJobQueryHandler() queries.GetJobQueryHandler {
	return queries.NewGetJobQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWorkerActiveJobsQueryHandler() queries.GetWorkerActiveJobsQueryHandler {
	return queries.NewGetWorkerActiveJobsQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the API server over every use case.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	handlers := httpin.Handlers{
		CreateJob:              c.CreateCreateJobCommandHandler(),
		AttemptTransition:      c.CreateAttemptTransitionCommandHandler(),
		VerifyVisit:            c.CreateVerifyVisitCommandHandler(),
		ResendVisitCode:        c.CreateResendVisitCodeCommandHandler(),
		InitiateCashCollection: c.CreateInitiateCashCollectionCommandHandler(),
		ConfirmCashCollection:  c.CreateConfirmCashCollectionCommandHandler(),
		RequestPayout:          c.CreateRequestPayoutCommandHandler(),
		ConfirmPayout:          c.CreateConfirmPayoutCommandHandler(),
		ConfirmFinalSettlement: c.CreateConfirmFinalSettlementCommandHandler(),
		GetJob:                 c.CreateGetJobQueryHandler(),
		GetWorkerJobs:          c.CreateGetWorkerActiveJobsQueryHandler(),
	}
	attempts := httpin.NewAttemptLimiter(c.config.CodeAttemptsEvery, c.config.CodeAttemptsBurst)
	return httpin.NewServer(handlers, c.positions, c.supervisor, c.hub, attempts)
}

// CreateConsumers builds the Kafka consumers of job intake and cancellation.
func (c *CompositionRoot) CreateConsumers() []*kafkain.Consumer {
	assigned := kafkain.NewReader(c.config.KafkaBrokers, c.config.KafkaConsumerGroup, c.config.KafkaJobAssignedTopic)
	cancelled := kafkain.NewReader(c.config.KafkaBrokers, c.config.KafkaConsumerGroup, c.config.KafkaJobCancelledTopic)

	return []*kafkain.Consumer{
		kafkain.NewConsumer(assigned, kafkain.NewJobAssignedHandler(c.CreateCreateJobCommandHandler(), c.logger), c.logger),
		kafkain.NewConsumer(cancelled, kafkain.NewJobCancelledHandler(c.CreateAttemptTransitionCommandHandler(), c.logger), c.logger),
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewTelemetrySweepJob(c.supervisor, c.config.SweepSchedule, c.logger),
	)
}

// Close stops telemetry and releases the outbound connections.
func (c *CompositionRoot) Close() error {
	c.supervisor.StopAll()

	err := c.writer.Close()
	if c.redis != nil {
		err = errors.Join(err, c.redis.Close())
	}
	return err
}

type FuncJobUoWFactory func() commands.JobUoW

func (f FuncJobUoWFactory) Create() commands.JobUoW {
	return f()
}
