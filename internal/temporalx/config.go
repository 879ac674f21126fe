package temporalx

import (
	"time"

	"github.com/yungbote/contentflow-backend/internal/platform/envutil"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	// ReconcileCron drives the scheduled progression workflow. Empty disables it.
	ReconcileCron string

	AutoRegisterNamespace bool
	NamespaceRetention    time.Duration
	DialTimeout           time.Duration
	DialMaxWait           time.Duration
}

func LoadConfig() Config {
	retentionDays := envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7)
	if retentionDays < 1 || retentionDays > 365 {
		retentionDays = 7
	}
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", ""),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "contentflow"),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "contentflow"),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),

		ReconcileCron: envutil.String("TEMPORAL_RECONCILE_CRON", "*/15 * * * *"),

		AutoRegisterNamespace: envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false),
		NamespaceRetention:    time.Duration(retentionDays) * 24 * time.Hour,
		DialTimeout:           envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5*time.Second),
		DialMaxWait:           envutil.Seconds("TEMPORAL_DIAL_MAX_WAIT_SECONDS", 60*time.Second),
	}
}

func (c Config) Enabled() bool { return c.Address != "" }

func (c Config) tlsEnabled() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}
