package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr enables the distributed job lock. Empty keeps locks in process.
	RedisAddr     string
	RedisPassword string
	LockTTL       time.Duration

	KafkaBrokers            []string
	KafkaConsumerGroup      string
	KafkaJobAssignedTopic   string
	KafkaJobCancelledTopic  string
	KafkaJobChangedTopic    string
	KafkaCodesTopic         string
	KafkaPayoutRequestTopic string

	ThrottleInterval       time.Duration
	ThrottleDistanceMeters float64
	SweepSchedule          string

	CodeAttemptsEvery time.Duration
	CodeAttemptsBurst int
}

// DSN is the Postgres connection string built from the DB settings.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}

// LoadConfig reads the environment, after loading envFile when it exists.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := Config{
		HTTPPort:                v.GetString("HTTP_PORT"),
		DBHost:                  v.GetString("DB_HOST"),
		DBPort:                  v.GetString("DB_PORT"),
		DBUser:                  v.GetString("DB_USER"),
		DBPassword:              v.GetString("DB_PASSWORD"),
		DBName:                  v.GetString("DB_NAME"),
		DBSslMode:               v.GetString("DB_SSLMODE"),
		RedisAddr:               v.GetString("REDIS_ADDR"),
		RedisPassword:           v.GetString("REDIS_PASSWORD"),
		LockTTL:                 v.GetDuration("LOCK_TTL"),
		KafkaBrokers:            splitList(v.GetString("KAFKA_BROKERS")),
		KafkaConsumerGroup:      v.GetString("KAFKA_CONSUMER_GROUP"),
		KafkaJobAssignedTopic:   v.GetString("KAFKA_JOB_ASSIGNED_TOPIC"),
		KafkaJobCancelledTopic:  v.GetString("KAFKA_JOB_CANCELLED_TOPIC"),
		KafkaJobChangedTopic:    v.GetString("KAFKA_JOB_CHANGED_TOPIC"),
		KafkaCodesTopic:         v.GetString("KAFKA_CODES_TOPIC"),
		KafkaPayoutRequestTopic: v.GetString("KAFKA_PAYOUT_REQUEST_TOPIC"),
		ThrottleInterval:        v.GetDuration("THROTTLE_INTERVAL"),
		ThrottleDistanceMeters:  v.GetFloat64("THROTTLE_DISTANCE_METERS"),
		SweepSchedule:           v.GetString("SWEEP_SCHEDULE"),
		CodeAttemptsEvery:       v.GetDuration("CODE_ATTEMPTS_EVERY"),
		CodeAttemptsBurst:       v.GetInt("CODE_ATTEMPTS_BURST"),
	}

	return config, config.validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fieldservice")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOCK_TTL", "30s")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "fieldservice")
	v.SetDefault("KAFKA_JOB_ASSIGNED_TOPIC", "job.assigned")
	v.SetDefault("KAFKA_JOB_CANCELLED_TOPIC", "job.cancelled")
	v.SetDefault("KAFKA_JOB_CHANGED_TOPIC", "job.changed")
	v.SetDefault("KAFKA_CODES_TOPIC", "job.codes")
	v.SetDefault("KAFKA_PAYOUT_REQUEST_TOPIC", "payout.requested")
	v.SetDefault("THROTTLE_INTERVAL", "3s")
	v.SetDefault("THROTTLE_DISTANCE_METERS", 10)
	v.SetDefault("SWEEP_SCHEDULE", "* * * * * *")
	v.SetDefault("CODE_ATTEMPTS_EVERY", "30s")
	v.SetDefault("CODE_ATTEMPTS_BURST", 5)
}

func (c Config) validate() error {
	var err error
	if c.HTTPPort == "" {
		err = errors.Join(err, errors.New("HTTP_PORT is required"))
	}
	if len(c.KafkaBrokers) == 0 {
		err = errors.Join(err, errors.New("KAFKA_BROKERS is required"))
	}
	if c.ThrottleInterval < 0 || c.ThrottleDistanceMeters < 0 {
		err = errors.Join(err, errors.New("throttle gates must not be negative"))
	}
	if c.CodeAttemptsEvery <= 0 || c.CodeAttemptsBurst <= 0 {
		err = errors.Join(err, errors.New("code attempt limits must be positive"))
	}
	return err
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
