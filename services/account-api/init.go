package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/accountdesk/account-backend/pkg/apihelpers"
	"github.com/accountdesk/account-backend/pkg/db"
	"github.com/accountdesk/account-backend/pkg/messaging/emailsending"
	"github.com/accountdesk/account-backend/pkg/messaging/sms"
	messagingTypes "github.com/accountdesk/account-backend/pkg/messaging/types"
	"github.com/accountdesk/account-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	messagingDB "github.com/accountdesk/account-backend/pkg/db/messaging"
	profileDB "github.com/accountdesk/account-backend/pkg/db/profiles"
	verificationDB "github.com/accountdesk/account-backend/pkg/db/verifications"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_DB_USERNAME   = "ACCOUNT_DB_USERNAME"
	ENV_ACCOUNT_DB_PASSWORD   = "ACCOUNT_DB_PASSWORD"
	ENV_MESSAGING_DB_USERNAME = "MESSAGING_DB_USERNAME"
	ENV_MESSAGING_DB_PASSWORD = "MESSAGING_DB_PASSWORD"

	ENV_IDP_API_KEY           = "IDP_API_KEY"
	ENV_SMS_GATEWAY_API_KEY   = "SMS_GATEWAY_API_KEY"
	ENV_EMAIL_GATEWAY_API_KEY = "EMAIL_GATEWAY_API_KEY"
)

type AccountApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// Identity provider configs
	IdentityProviderConfig struct {
		URL            string        `json:"url" yaml:"url"`
		APIKey         string        `json:"api_key" yaml:"api_key"`
		RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
	} `json:"identity_provider_config" yaml:"identity_provider_config"`

	// Verification protocol configs
	VerificationConfig struct {
		CodeTTL            string `json:"code_ttl" yaml:"code_ttl"`
		MaxConfirmAttempts int64  `json:"max_confirm_attempts" yaml:"max_confirm_attempts"`
	} `json:"verification_config" yaml:"verification_config"`

	// DB configs
	DBConfigs struct {
		AccountDB   db.DBConfigYaml `json:"account_db" yaml:"account_db"`
		MessagingDB db.DBConfigYaml `json:"messaging_db" yaml:"messaging_db"`
	} `json:"db_configs" yaml:"db_configs"`

	MessagingConfigs messagingTypes.MessagingConfigs `json:"messaging_configs" yaml:"messaging_configs"`
}

var (
	profileDBService      *profileDB.ProfileDBService
	verificationDBService *verificationDB.VerificationDBService
	messagingDBService    *messagingDB.MessagingDBService

	verificationCodeTTL time.Duration
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	if !utils.ContainsString([]string{"", "debug", "info", "warn", "error"}, conf.Logging.LogLevel) {
		panic("unknown log level: " + conf.Logging.LogLevel)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
	)

	// Override secrets from environment variables
	secretsOverride()

	verificationCodeTTL = 10 * time.Minute
	if conf.VerificationConfig.CodeTTL != "" {
		verificationCodeTTL, err = utils.ParseDurationString(conf.VerificationConfig.CodeTTL)
		if err != nil {
			panic(err)
		}
	}

	// Init DBs
	initDBs()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init message sending config
	initMessageSendingConfig()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACCOUNT_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountDB.Password = dbPassword
	}

	if dbUsername := os.Getenv(ENV_MESSAGING_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.MessagingDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_MESSAGING_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.MessagingDB.Password = dbPassword
	}

	if apiKey := os.Getenv(ENV_IDP_API_KEY); apiKey != "" {
		conf.IdentityProviderConfig.APIKey = apiKey
	}

	if apiKey := os.Getenv(ENV_SMS_GATEWAY_API_KEY); apiKey != "" {
		conf.MessagingConfigs.SMSGatewayConfig.APIKey = apiKey
	}

	if apiKey := os.Getenv(ENV_EMAIL_GATEWAY_API_KEY); apiKey != "" {
		conf.MessagingConfigs.EmailGatewayConfig.APIKey = apiKey
	}
}

func initDBs() {
	var err error
	profileDBService, err = profileDB.NewProfileDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AccountDB))
	if err != nil {
		slog.Error("Error connecting to Account DB", slog.String("error", err.Error()))
		return
	}

	verificationDBService, err = verificationDB.NewVerificationDBService(
		db.DBConfigFromYamlObj(conf.DBConfigs.AccountDB),
		int32(verificationCodeTTL.Seconds()),
	)
	if err != nil {
		slog.Error("Error connecting to Verification DB", slog.String("error", err.Error()))
		return
	}

	messagingDBService, err = messagingDB.NewMessagingDBService(db.DBConfigFromYamlObj(conf.DBConfigs.MessagingDB))
	if err != nil {
		slog.Error("Error connecting to Messaging DB", slog.String("error", err.Error()))
		return
	}
}

func initMessageSendingConfig() {
	sms.Init(
		&conf.MessagingConfigs.SMSGatewayConfig,
		messagingDBService,
	)
	emailsending.Init(
		&conf.MessagingConfigs.EmailGatewayConfig,
		messagingDBService,
	)
}
