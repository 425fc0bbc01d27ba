package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper). The import pipeline
// receives its storage settings from here explicitly; nothing reads ambient
// globals.
type Config struct {
	Env               string
	Port              string
	DatabaseURL       string
	RedisURL          string
	FrontendSuffix    string
	UploadFolder      string
	AllowedExtensions []string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}
	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	uploads := viper.GetString("UPLOAD_FOLDER")
	if uploads == "" {
		uploads = "uploads"
	}
	extensions := viper.GetStringSlice("ALLOWED_EXTENSIONS")
	if len(extensions) == 0 {
		extensions = []string{"csv"}
	}

	return &Config{
		Env:               env,
		Port:              port,
		DatabaseURL:       viper.GetString("DATABASE_URL"),
		RedisURL:          viper.GetString("REDIS_URL"),
		FrontendSuffix:    viper.GetString("FRONTEND_URL_ENDS_WITH"),
		UploadFolder:      uploads,
		AllowedExtensions: extensions,
	}, nil
}
