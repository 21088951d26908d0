package serverconfig

import "time"

type Config struct {
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Atlas      AtlasConfig      `yaml:"atlas" mapstructure:"atlas"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Postgres   PostgresConfig   `yaml:"postgres" mapstructure:"postgres"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	Redis      RedisConfig      `yaml:"redis" mapstructure:"redis"`
	Security   SecurityConfig   `yaml:"security" mapstructure:"security"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
	// AllowOrigins 为空时允许任意来源。
	AllowOrigins []string `yaml:"allow_origins" mapstructure:"allow_origins"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

// 数据源类型
const (
	SourceFile     = "file"
	SourceMongoDB  = "mongodb"
	SourceMySQL    = "mysql"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

type AtlasConfig struct {
	Source         string `yaml:"source" mapstructure:"source"`
	MapFile        string `yaml:"map_file" mapstructure:"map_file"`
	SettlementFile string `yaml:"settlement_file" mapstructure:"settlement_file"`
	// Watch 只对 file 数据源生效。
	Watch            bool          `yaml:"watch" mapstructure:"watch"`
	WatchDebounce    time.Duration `yaml:"watch_debounce" mapstructure:"watch_debounce"`
	StrictValidation bool          `yaml:"strict_validation" mapstructure:"strict_validation"`
	Placeholders     Placeholders  `yaml:"placeholders" mapstructure:"placeholders"`
}

type Placeholders struct {
	Settlement string `yaml:"settlement" mapstructure:"settlement"`
	Landmark   string `yaml:"landmark" mapstructure:"landmark"`
	Action     string `yaml:"action" mapstructure:"action"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type PostgresConfig struct {
	DSN     string `yaml:"dsn" mapstructure:"dsn"`
	MaxConn int32  `yaml:"max_conn" mapstructure:"max_conn"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// RedisConfig 配置后，多实例之间通过 pub/sub 互相通知重新加载。
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Channel  string `yaml:"channel" mapstructure:"channel"`
}

type SecurityConfig struct {
	JWTSecret string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	// AdminUid 是允许调用管理接口的 uid。
	AdminUid int `yaml:"admin_uid" mapstructure:"admin_uid"`
}
