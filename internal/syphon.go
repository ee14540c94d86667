package internal

import (
	"context"
	"fmt"
	"sync"

	"github.com/hbomb79/Syphon/internal/api"
	"github.com/hbomb79/Syphon/internal/extractor"
	"github.com/hbomb79/Syphon/internal/limiter"
	"github.com/hbomb79/Syphon/internal/proxy"
	"github.com/hbomb79/Syphon/pkg/logger"
	"github.com/redis/go-redis/v9"
)

var log = logger.Get("Core")

type (
	RunnableService interface {
		Run(context.Context) error
	}
)

// Syphon represents the top-level object for the server, and is
// responsible for initialising the quota store connection, the
// limiter, the extractor and proxy services, and the REST gateway.
type syphonImpl struct {
	config      SyphonConfig
	quotaClient *redis.Client
	restGateway RunnableService
}

// New constructs the service graph. The Redis client backing the
// quota store is created exactly once here and shared, read/write, by
// every concurrently handled request for the process's lifetime.
func New(config SyphonConfig) *syphonImpl {
	log.Emit(logger.DEBUG, "Bootstrapping Syphon services using config: %#v\n", config)

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		panic(fmt.Sprintf("failed to parse quota store URL due to error: %s", err.Error()))
	}
	quotaClient := redis.NewClient(opts)

	admitter := limiter.New(config.RateLimit, limiter.NewRedisStore(quotaClient))
	ytdlp := extractor.NewYtDlp(config.Extractor)
	streamProxy := proxy.New(config.Proxy)

	return &syphonImpl{
		config:      config,
		quotaClient: quotaClient,
		restGateway: api.NewRestGateway(&config.Rest, admitter, ytdlp, streamProxy),
	}
}

// Run will start Syphon by bringing up the REST gateway. This function
// will not return until Syphon is stopped; to stop Syphon, the
// provided context must be cancelled. Errors from which Syphon cannot
// recover will also cause it to stop.
func (syphon *syphonImpl) Run(parent context.Context) error {
	defer func() {
		if err := syphon.quotaClient.Close(); err != nil {
			log.Emit(logger.WARNING, "Failed to close quota store connection: %s\n", err.Error())
		}
	}()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	crashHandler := func(label string, err error) {
		log.Emit(logger.FATAL, "Service crash (%s)! %s\n", label, err.Error())
		cancel()
	}

	wg := &sync.WaitGroup{}
	syphon.spawnAsyncService(ctx, wg, syphon.restGateway, "rest-gateway", crashHandler)
	log.Emit(logger.SUCCESS, "Syphon services spawned!\n")

	wg.Wait()
	return nil
}

// spawnAsyncService will run the provided function/service as it's own
// go-routine, ensuring that the Syphon service waitgroup is updated correctly
func (syphon *syphonImpl) spawnAsyncService(context context.Context, wg *sync.WaitGroup, service RunnableService, serviceLabel string, crashHandler func(string, error)) {
	log.Emit(logger.NEW, "Spawning %s\n", serviceLabel)
	wg.Add(1)

	go func(wg *sync.WaitGroup, label string, crash func(string, error)) {
		defer func() {
			if r := recover(); r != nil {
				crash(label, fmt.Errorf("panic %v", r))
			}
		}()

		defer wg.Done()
		if err := service.Run(context); err != nil {
			crash(label, err)
		}
	}(wg, serviceLabel, crashHandler)
}
