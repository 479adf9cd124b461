package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the coordinator and node binaries.
// The mapstructure tags are used by Viper to unmarshal the data.
type Config struct {
	DBDriver       string `mapstructure:"db_driver"`
	DBDSN          string `mapstructure:"db_dsn"`
	HttpListenAddr string `mapstructure:"http_listen_addr"`

	DispatchTimeout time.Duration `mapstructure:"dispatch_timeout"`
	SweepInterval   time.Duration `mapstructure:"sweep_interval"`
	LivenessWindow  time.Duration `mapstructure:"liveness_window"`

	UploadDir      string `mapstructure:"upload_dir"`
	ArchiveDir     string `mapstructure:"archive_dir"`
	NodeResultsDir string `mapstructure:"node_results_dir"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`

	// Leader election is optional: with no endpoints configured the
	// coordinator assumes it is the only replica and sweeps unconditionally.
	EtcdEndpoints     []string      `mapstructure:"etcd_endpoints"`
	EtcdTimeout       time.Duration `mapstructure:"etcd_timeout"`
	LeaderElectionTTL time.Duration `mapstructure:"leader_election_ttl"`

	// Node-binary settings.
	NodeName          string        `mapstructure:"node_name"`
	NodeListenAddr    string        `mapstructure:"node_listen_addr"`
	NodeAdvertiseHost string        `mapstructure:"node_advertise_host"`
	NodeAdvertisePort int           `mapstructure:"node_advertise_port"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetDefault("db_driver", "sqlite3")
	viper.SetDefault("db_dsn", "file:imaging.db?_foreign_keys=1")
	viper.SetDefault("http_listen_addr", ":8080")
	viper.SetDefault("dispatch_timeout", "300s")
	viper.SetDefault("sweep_interval", "30s")
	viper.SetDefault("liveness_window", "2m")
	viper.SetDefault("upload_dir", "./uploads")
	viper.SetDefault("archive_dir", "./archives")
	viper.SetDefault("node_results_dir", "./node_results")
	viper.SetDefault("max_upload_bytes", 16<<20)
	viper.SetDefault("etcd_timeout", "5s")
	viper.SetDefault("leader_election_ttl", "10s")
	viper.SetDefault("node_listen_addr", ":50052")
	viper.SetDefault("node_advertise_host", "127.0.0.1")
	viper.SetDefault("node_advertise_port", 50052)
	viper.SetDefault("heartbeat_interval", "30s")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file; defaults and env vars are enough.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
