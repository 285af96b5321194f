// pkg/config/notify.go
package config

type NotifyConfig struct {
	Queue       string
	Concurrency int
	MaxRetry    int
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Queue:       getEnv("NOTIFY_QUEUE", "notifications"),
		Concurrency: getEnvInt("NOTIFY_CONCURRENCY", 5),
		MaxRetry:    getEnvInt("NOTIFY_MAX_RETRY", 3),
	}
}
