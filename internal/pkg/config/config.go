package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	Engine struct {
		CourierID          string
		CompletionDelay    time.Duration
		CancelResetDelay   time.Duration
		NavigationDebounce time.Duration
		HistorySize        int
		ScanRadiusKm       float64
	}

	Verification struct {
		MinPickupPhotos  int
		MinDropoffPhotos int
		VideoMandatory   bool
	}

	Tasks struct {
		OfflineDrainInterval  time.Duration
		DiscoveryScanInterval time.Duration
	}

	Offline struct {
		MaxRetries int
		BatchSize  int
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // middleware  rate limiter capacity
		RateLimiterBurst int           // middlewarerate limiter burst/refill
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Backend struct {
		GRPCHost string
	}

	// Kafka необязательна: без брокеров фиксы принимаются только через REST,
	// события не публикуются в топик.
	Kafka struct {
		Brokers       string
		LocationTopic string
		EventsTopic   string
		ConsumerGroup string
		Sarama        Sarama
		Handlers      KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		LocationFix LocationFix
	}

	// LocationFix MaxAge отсекает фиксы, пролежавшие в топике дольше.
	LocationFix struct {
		MaxAge time.Duration
	}

	// Redis пустой URL означает брокер событий в памяти процесса.
	Redis struct {
		URL           string
		EventsChannel string
	}

	Config struct {
		Engine       Engine
		Verification Verification
		Tasks        Tasks
		Offline      Offline
		Server       HTTPServer
		Database     Database
		Backend      Backend
		Kafka        Kafka
		Redis        Redis
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// KafkaEnabled true если заданы брокеры.
func (c *Config) KafkaEnabled() bool {
	return c.Kafka.Brokers != ""
}

// KafkaBrokers список брокеров из KAFKA_BROKERS через запятую.
func (c *Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// без переменной требуется одно фото, VERIFICATION_MIN_*_PHOTOS=0 отключает требование
const defaultMinPhotos = 1

func loadFromEnv() (*Config, error) {
	completionDelay, err := osGetEnvDuration("ENGINE_COMPLETION_DELAY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cancelResetDelay, err := osGetEnvDuration("ENGINE_CANCEL_RESET_DELAY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	navigationDebounce, err := osGetEnvDuration("ENGINE_NAVIGATION_DEBOUNCE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	historySize, err := osGetInt("ENGINE_HISTORY_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scanRadius, err := osGetFloat("ENGINE_SCAN_RADIUS_KM")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	minPickupPhotos, err := osGetIntOr("VERIFICATION_MIN_PICKUP_PHOTOS", defaultMinPhotos)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	minDropoffPhotos, err := osGetIntOr("VERIFICATION_MIN_DROPOFF_PHOTOS", defaultMinPhotos)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	videoMandatory, err := osGetBool("VERIFICATION_VIDEO_MANDATORY")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	drainInterval, err := osGetEnvDuration("BACKGROUND_OFFLINE_DRAIN_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	scanInterval, err := osGetEnvDuration("BACKGROUND_DISCOVERY_SCAN_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offlineMaxRetries, err := osGetInt("OFFLINE_MAX_RETRIES")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	offlineBatchSize, err := osGetInt("OFFLINE_BATCH_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	locationFixMaxAge, err := osGetEnvDuration("KAFKA_HANDLER_LOCATION_FIX_MAX_AGE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Config{
		Engine: Engine{
			CourierID:          os.Getenv("COURIER_ID"),
			CompletionDelay:    completionDelay,
			CancelResetDelay:   cancelResetDelay,
			NavigationDebounce: navigationDebounce,
			HistorySize:        historySize,
			ScanRadiusKm:       scanRadius,
		},
		Verification: Verification{
			MinPickupPhotos:  minPickupPhotos,
			MinDropoffPhotos: minDropoffPhotos,
			VideoMandatory:   videoMandatory,
		},
		Tasks: Tasks{
			OfflineDrainInterval:  drainInterval,
			DiscoveryScanInterval: scanInterval,
		},
		Offline: Offline{
			MaxRetries: offlineMaxRetries,
			BatchSize:  offlineBatchSize,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		},
		Backend: Backend{
			GRPCHost: os.Getenv("BACKEND_GRPC_HOST"),
		},
		Kafka: Kafka{
			Brokers:       os.Getenv("KAFKA_BROKERS"),
			LocationTopic: os.Getenv("KAFKA_LOCATION_TOPIC"),
			EventsTopic:   os.Getenv("KAFKA_EVENTS_TOPIC"),
			ConsumerGroup: os.Getenv("KAFKA_CONSUMER_GROUP"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				LocationFix: LocationFix{
					MaxAge: locationFixMaxAge,
				},
			},
		},
		Redis: Redis{
			URL:           os.Getenv("REDIS_URL"),
			EventsChannel: os.Getenv("REDIS_EVENTS_CHANNEL"),
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.Engine.CourierID) == "" {
		return errors.New("COURIER_ID is required (or -courier flag)")
	}
	if cfg.Engine.HistorySize < 0 {
		return errors.New("ENGINE_HISTORY_SIZE must not be negative")
	}
	if cfg.Engine.ScanRadiusKm < 0 {
		return errors.New("ENGINE_SCAN_RADIUS_KM must not be negative")
	}

	if cfg.Verification.MinPickupPhotos < 0 || cfg.Verification.MinDropoffPhotos < 0 {
		return errors.New("VERIFICATION_MIN_*_PHOTOS must not be negative")
	}

	if cfg.Offline.MaxRetries < 0 || cfg.Offline.BatchSize < 0 {
		return errors.New("OFFLINE_MAX_RETRIES and OFFLINE_BATCH_SIZE must not be negative")
	}

	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Tasks.OfflineDrainInterval == time.Duration(0) {
		return errors.New("BACKGROUND_OFFLINE_DRAIN_INTERVAL is required")
	}
	if cfg.Tasks.DiscoveryScanInterval == time.Duration(0) {
		return errors.New("BACKGROUND_DISCOVERY_SCAN_INTERVAL is required")
	}

	if cfg.Backend.GRPCHost == "" {
		return errors.New("BACKEND_GRPC_HOST is required")
	}

	if cfg.KafkaEnabled() {
		if cfg.Kafka.LocationTopic == "" {
			return errors.New("KAFKA_LOCATION_TOPIC is required")
		}
		if cfg.Kafka.EventsTopic == "" {
			return errors.New("KAFKA_EVENTS_TOPIC is required")
		}
		if cfg.Kafka.ConsumerGroup == "" {
			return errors.New("KAFKA_CONSUMER_GROUP is required")
		}
		if cfg.Kafka.Sarama.Version == "" {
			return errors.New("KAFKA_SARAMA_VERSION is required")
		}
		if cfg.Kafka.Handlers.LocationFix.MaxAge == time.Duration(0) {
			return errors.New("KAFKA_HANDLER_LOCATION_FIX_MAX_AGE is required")
		}
	}

	if cfg.Redis.URL != "" && cfg.Redis.EventsChannel == "" {
		return errors.New("REDIS_EVENTS_CHANNEL is required")
	}

	return nil
}

func osGetInt(s string) (int, error) {
	return osGetIntOr(s, 0)
}

// osGetIntOr пустая переменная дает def, явный "0" остается нулем.
func osGetIntOr(s string, def int) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return def, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetFloat(s string) (float64, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}
