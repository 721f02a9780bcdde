package positionhub

import (
	"time"

	"github.com/go-ini/ini"
)

type Config struct {
	Address     string
	MaxClients  int
	SendTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Address:     "localhost:4433",
		MaxClients:  256,
		SendTimeout: time.Second,
	}
}

// LoadConfig reads the [hub] section of an ini file. Missing keys keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	f, err := ini.Load(path)
	if err != nil {
		return config, err
	}

	section := f.Section("hub")
	if address := section.Key("address").String(); address != "" {
		config.Address = address
	}
	if max := section.Key("max_clients").MustInt(0); max > 0 {
		config.MaxClients = max
	}
	if timeout := section.Key("send_timeout").MustDuration(0); timeout > 0 {
		config.SendTimeout = timeout
	}
	return config, nil
}
