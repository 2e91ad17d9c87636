package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Driver    string // file | redis
	Dir       string
	KeyPrefix string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SchedulerConfig struct {
	Enabled           bool
	NotificationsSpec string
	JobTimeout        time.Duration
}

type CheckoutConfig struct {
	ShippingFee decimal.Decimal
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	HTTP             HTTPConfig
	API              APIConfig
	Session          SessionConfig
	Redis            RedisConfig
	Scheduler        SchedulerConfig
	Checkout         CheckoutConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			stringToDecimalHookFunc(),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.baseurl is required")
	}
	switch cfg.Session.Driver {
	case "file", "redis":
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Session.Driver)
	}

	return &cfg, nil
}

// stringToDecimalHookFunc lets money values be written as strings or numbers.
func stringToDecimalHookFunc() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(decimal.Decimal{}) {
			return data, nil
		}
		switch value := data.(type) {
		case string:
			return decimal.NewFromString(value)
		case int:
			return decimal.NewFromInt(int64(value)), nil
		case int64:
			return decimal.NewFromInt(value), nil
		case float64:
			return decimal.NewFromFloat(value), nil
		}
		return data, nil
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "")

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("api.baseurl", "http://localhost:8081/api")
	v.SetDefault("api.timeout", "15s")

	v.SetDefault("session.driver", "file")
	v.SetDefault("session.dir", ".storefront")
	v.SetDefault("session.keyprefix", "storefront:")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.notificationsspec", "0 */1 * * * *") // every minute
	v.SetDefault("scheduler.jobtimeout", "10s")

	v.SetDefault("checkout.shippingfee", "50.00")
}
