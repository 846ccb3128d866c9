package api

import "time"

type ServerConfig struct {
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     int
	Database string
	Schema   string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type SessionConfig struct {
	KeyForCookie string
	CookieMaxAge time.Duration
	CookieSecure bool
}
