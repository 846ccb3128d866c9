package main

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"picstash/api"
)

func ParseArgs() Args {
	// server config
	pflag.String("server-url", "0.0.0.0:8080", "")

	// db config
	pflag.String("db-user", "", "")
	pflag.String("db-password", "", "")
	pflag.String("db-host", "", "")
	pflag.Int("db-port", 5432, "")
	pflag.String("db-database", "", "")
	pflag.String("db-schema", "public", "")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 0, "")
	pflag.String("redis-key-prefix", "picstash:", "")

	// session config
	pflag.String("session-cookie-key", "picstash_session", "")
	pflag.Duration("session-max-age", 24*time.Hour, "")
	pflag.Bool("session-cookie-secure", true, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("PICSTASH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// initial arguments
	return Args{
		ServerURL: viper.GetString("server-url"),
		ServerConfig: api.ServerConfig{
			DB: api.DBConfig{
				User:     viper.GetString("db-user"),
				Password: viper.GetString("db-password"),
				Host:     viper.GetString("db-host"),
				Port:     viper.GetInt("db-port"),
				Database: viper.GetString("db-database"),
				Schema:   viper.GetString("db-schema"),
			},
			Redis: api.RedisConfig{
				Addr:      viper.GetString("redis-addr"),
				Password:  viper.GetString("redis-password"),
				DB:        viper.GetInt("redis-db"),
				KeyPrefix: viper.GetString("redis-key-prefix"),
			},
			Session: api.SessionConfig{
				KeyForCookie: viper.GetString("session-cookie-key"),
				CookieMaxAge: viper.GetDuration("session-max-age"),
				CookieSecure: viper.GetBool("session-cookie-secure"),
			},
		},
	}
}

type Args struct {
	ServerURL    string
	ServerConfig api.ServerConfig
}

func (args Args) Validate() bool {
	return args.ServerURL != "" &&
		args.ServerConfig.DB.User != "" &&
		args.ServerConfig.DB.Host != "" &&
		args.ServerConfig.DB.Database != "" &&
		args.ServerConfig.Redis.Addr != "" &&
		args.ServerConfig.Session.KeyForCookie != ""
}
