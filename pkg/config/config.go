package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort         string
	FirebaseProject    string
	StorageBucket      string
	AllowedEmailDomain string
	UniversityName     string
	Environment        string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		FirebaseProject:    getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", ""),
		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "edu.rtu.lv"),
		UniversityName:     getEnv("UNIVERSITY_NAME", "Riga Technical University"),
		Environment:        getEnv("ENVIRONMENT", "development"),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
