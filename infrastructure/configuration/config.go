package configuration

import (
	"fmt"
	"os"
	"strconv"

	"social-hub/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
	OAuth       OAuth       `json:"oauth"`
	Social      Social      `json:"social"`
	Cors        Cors        `json:"cors"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

// OAuth holds third-party platform client credentials. Telegram is not an
// OAuth provider; it carries a bot token instead.
type OAuth struct {
	Facebook  OAuthClient `json:"facebook"`
	Twitter   OAuthClient `json:"twitter"`
	Instagram OAuthClient `json:"instagram"`
	Telegram  TelegramBot `json:"telegram"`
}

type OAuthClient struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
}

type TelegramBot struct {
	BotToken    string `json:"botToken"`
	BotUsername string `json:"botUsername"`
}

// Social controls the publish fan-out.
type Social struct {
	Platforms             []string `json:"platforms"`
	PublishTimeoutSeconds int      `json:"publishTimeoutSeconds"`
}

type Cors struct {
	AllowedOrigins []string `json:"allowedOrigins"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initOAuth(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
	if len(C.Social.Platforms) == 0 {
		C.Social.Platforms = []string{"facebook", "twitter", "telegram", "instagram"}
	}
	if C.Social.PublishTimeoutSeconds == 0 {
		C.Social.PublishTimeoutSeconds = 15
	}
	if len(C.Cors.AllowedOrigins) == 0 {
		C.Cors.AllowedOrigins = []string{"http://localhost:4200", "http://localhost:5173"}
	}
}

func initDatabase(C *Config) {
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
}

func initOAuth(C *Config) {
	fill := func(dst *string, env string) {
		if *dst == "" {
			*dst = os.Getenv(env)
		}
	}
	fill(&C.OAuth.Facebook.ClientID, "FACEBOOK_CLIENT_ID")
	fill(&C.OAuth.Facebook.ClientSecret, "FACEBOOK_CLIENT_SECRET")
	fill(&C.OAuth.Facebook.RedirectURI, "FACEBOOK_REDIRECT_URI")
	fill(&C.OAuth.Twitter.ClientID, "TWITTER_CLIENT_ID")
	fill(&C.OAuth.Twitter.ClientSecret, "TWITTER_CLIENT_SECRET")
	fill(&C.OAuth.Twitter.RedirectURI, "TWITTER_REDIRECT_URI")
	fill(&C.OAuth.Instagram.ClientID, "INSTAGRAM_CLIENT_ID")
	fill(&C.OAuth.Instagram.ClientSecret, "INSTAGRAM_CLIENT_SECRET")
	fill(&C.OAuth.Instagram.RedirectURI, "INSTAGRAM_REDIRECT_URI")
	fill(&C.OAuth.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	fill(&C.OAuth.Telegram.BotUsername, "TELEGRAM_BOT_USERNAME")
}
