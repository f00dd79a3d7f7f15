package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	stdlog "log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"courier-engine/internal/handlers/kafka-consumer/location_fix"
	"courier-engine/internal/pkg/config"
	"courier-engine/internal/pkg/kafka"
	"courier-engine/pkg/geo"
	"courier-engine/pkg/logger"
	"courier-engine/pkg/logger/zap_adapter"
	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fixesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fix_simulator_fixes_total",
		Help: "Fixes sent by the simulator",
	}, []string{"result"})

	sendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fix_simulator_send_duration_seconds",
		Help:    "Kafka send duration",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

type options struct {
	courierID   string
	brokers     string
	topic       string
	version     string
	fromLat     float64
	fromLng     float64
	toLat       float64
	toLng       float64
	steps       int
	interval    time.Duration
	failureRate float64
	metricsPort string
}

// fix-simulator ведет курьера по прямой между двумя точками и пишет фиксы
// в топик локаций. Часть фиксов можно сделать ошибками провайдера, чтобы
// проверить эскалацию трекера.
func main() {
	opts := parseOptions()

	zapLogger, err := zap_adapter.NewZapAdapter()
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	var log logger.Logger = zapLogger.With(
		logger.NewField("courier_id", opts.courierID),
		logger.NewField("topic", opts.topic),
	)

	if err := run(log, opts); err != nil {
		log.Error("simulator failed", logger.NewField("error", err))
		os.Exit(1)
	}
}

func parseOptions() options {
	var opts options
	flag.StringVar(&opts.courierID, "courier", os.Getenv("COURIER_ID"), "courier id")
	flag.StringVar(&opts.brokers, "brokers", os.Getenv("KAFKA_BROKERS"), "comma separated kafka brokers")
	flag.StringVar(&opts.topic, "topic", os.Getenv("KAFKA_LOCATION_TOPIC"), "location topic")
	flag.StringVar(&opts.version, "kafka-version", "3.6.0", "kafka protocol version")
	flag.Float64Var(&opts.fromLat, "from-lat", 55.7558, "start latitude")
	flag.Float64Var(&opts.fromLng, "from-lng", 37.6173, "start longitude")
	flag.Float64Var(&opts.toLat, "to-lat", 55.7649, "finish latitude")
	flag.Float64Var(&opts.toLng, "to-lng", 37.6056, "finish longitude")
	flag.IntVar(&opts.steps, "steps", 60, "number of fixes along the route")
	flag.DurationVar(&opts.interval, "interval", 2*time.Second, "pause between fixes")
	flag.Float64Var(&opts.failureRate, "failure-rate", 0, "share of fixes sent as provider errors")
	flag.StringVar(&opts.metricsPort, "metrics-port", "2112", "prometheus port")
	flag.Parse()
	return opts
}

func run(log logger.Logger, opts options) error {
	if opts.courierID == "" || opts.brokers == "" || opts.topic == "" {
		return errors.New("courier, brokers and topic are required")
	}
	if opts.steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", opts.steps)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	metricsServer := &http.Server{
		Addr:              ":" + opts.metricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics server stopped", logger.NewField("error", err))
		}
	}()
	defer func() {
		_ = metricsServer.Close()
	}()

	brokers := strings.Split(opts.brokers, ",")
	for i := range brokers {
		brokers[i] = strings.TrimSpace(brokers[i])
	}

	producer, err := kafka.NewSyncProducer(ctx, log, &config.Kafka{
		EventsTopic: opts.topic,
		Sarama:      config.Sarama{Version: opts.version},
	}, brokers)
	if err != nil {
		return err
	}
	defer func() {
		if err := producer.Close(); err != nil {
			log.Error("failed to close producer", logger.NewField("error", err))
		}
	}()

	total := geo.DistanceMeters(opts.fromLat, opts.fromLng, opts.toLat, opts.toLng)
	log.Info("route started",
		logger.NewField("distance_m", total),
		logger.NewField("steps", opts.steps),
	)

	ticker := time.NewTicker(opts.interval)
	defer ticker.Stop()

	for step := 0; step <= opts.steps; step++ {
		fix := nextFix(opts, step)

		if err := send(producer, opts.topic, fix); err != nil {
			fixesTotal.WithLabelValues("error").Inc()
			log.Warn("fix not sent", logger.NewField("step", step), logger.NewField("error", err))
		} else {
			fixesTotal.WithLabelValues("ok").Inc()
			log.Debug("fix sent", logger.NewField("step", step))
		}

		select {
		case <-ctx.Done():
			log.Info("simulator interrupted", logger.NewField("step", step))
			return nil
		case <-ticker.C:
		}
	}

	log.Info("route finished")
	return nil
}

func nextFix(opts options, step int) location_fix.FixMessage {
	fix := location_fix.FixMessage{
		CourierID:  opts.courierID,
		CapturedAt: time.Now().UTC(),
	}
	if opts.failureRate > 0 && rand.Float64() < opts.failureRate { //nolint:gosec // имитация, не криптография
		fix.Error = "simulated provider failure"
		return fix
	}

	progress := float64(step) / float64(opts.steps)
	fix.Latitude = opts.fromLat + (opts.toLat-opts.fromLat)*progress
	fix.Longitude = opts.fromLng + (opts.toLng-opts.fromLng)*progress
	fix.Accuracy = 5 + rand.Float64()*10 //nolint:gosec // имитация, не криптография
	return fix
}

func send(producer sarama.SyncProducer, topic string, fix location_fix.FixMessage) error {
	start := time.Now()
	defer func() {
		sendDuration.Observe(time.Since(start).Seconds())
	}()

	value, err := json.Marshal(fix)
	if err != nil {
		return err
	}

	_, _, err = producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(fix.CourierID),
		Value: sarama.ByteEncoder(value),
	})
	return err
}
