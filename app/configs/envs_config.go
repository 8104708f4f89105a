package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	Port                  string
	BackendBaseURL        string
	EndpointsFile         string
	SESSION_KEY           string
	AppAuthKey            string
	AppEncKey             string
	CSRFKey               string
	MIDTRANS_MERCHANT_KEY string
	MIDTRANS_CLIENT_KEY   string
	MIDTRANS_SERVER_KEY   string
	APP_URL               string
	APP_ENV               string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		Port:                  os.Getenv("APP_PORT"),
		BackendBaseURL:        os.Getenv("BACKEND_BASE_URL"),
		EndpointsFile:         os.Getenv("BACKEND_ENDPOINTS_FILE"),
		SESSION_KEY:           os.Getenv("SESSION_KEY"),
		AppAuthKey:            os.Getenv("APP_AUTH_KEY"),
		AppEncKey:             os.Getenv("APP_ENC_KEY"),
		CSRFKey:               os.Getenv("CSRF_KEY"),
		MIDTRANS_MERCHANT_KEY: os.Getenv("MIDTRANS_MERCHANT_KEY"),
		MIDTRANS_CLIENT_KEY:   os.Getenv("MIDTRANS_CLIENT_KEY"),
		MIDTRANS_SERVER_KEY:   os.Getenv("MIDTRANS_SERVER_KEY"),
		APP_URL:               os.Getenv("APP_URL"),
		APP_ENV:               os.Getenv("APP_ENV"),
	}

}
