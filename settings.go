package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

var (
	settings Settings
)

var LogLevelMap = map[string]int{
	"DEBUG": LevelDebug,
	"INFO":  LevelInfo,
	"WARN":  LevelWarn,
	"ERROR": LevelError,
}

type Settings struct {
	Version string
	Debug   bool
	Server  ServerSettings     `toml:"server"`
	Corpus  CorpusSettings     `toml:"corpus"`
	Redis   RedisSettings      `toml:"redis"`
	Pgsql   PostgresqlSettings `toml:"postgresql"`
	Log     LogSettings        `toml:"log"`
	Cache   CacheSettings      `toml:"cache"`
	Audit   AuditSettings      `toml:"audit"`
}

type ServerSettings struct {
	Host    string
	Port    int
	Timeout int
}

type CorpusSettings struct {
	Dir         string `toml:"dir"`
	Interval    int    `toml:"interval"`
	Sentinel    string `toml:"sentinel"`
	RedisEnable bool   `toml:"redis-enable"`
	RedisKey    string `toml:"redis-key"`
}

// SentinelByte falls back to the default when the config leaves it blank.
func (cs CorpusSettings) SentinelByte() byte {
	if len(cs.Sentinel) == 0 {
		return DefaultSentinel
	}
	return cs.Sentinel[0]
}

type RedisSettings struct {
	Host     string
	Port     int
	DB       int
	Password string
}

func (s RedisSettings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

type PostgresqlSettings struct {
	Host        string
	Port        int
	User        string
	Password    string
	DB          string
	Sslmode     string
	Sslcert     string
	Sslkey      string
	Sslrootcert string
}

type LogSettings struct {
	Stdout bool
	File   string
	Level  string
}

func (ls LogSettings) LogLevel() int {
	l, ok := LogLevelMap[ls.Level]
	if !ok {
		panic("Config error: invalid log level: " + ls.Level)
	}
	return l
}

type CacheSettings struct {
	Backend   string
	Expire    int
	Maxcount  int
	Memcached []string `toml:"memcached-servers"`
}

type AuditSettings struct {
	Enable  bool
	Backend string
	Expire  int64
}

func loadSettings() {

	var configFile string

	flag.StringVar(&configFile, "c", "suffixd.conf", "Look for suffixd toml-formatting config file in this directory")
	flag.Parse()

	if _, err := toml.DecodeFile(configFile, &settings); err != nil {
		fmt.Printf("%s is not a valid toml config file\n", configFile)
		fmt.Println(err)
		os.Exit(1)
	}

}
