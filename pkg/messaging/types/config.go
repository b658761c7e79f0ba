package types

import "time"

type SMSGatewayConfig struct {
	URL            string        `json:"url" yaml:"url"`
	APIKey         string        `json:"api_key" yaml:"api_key"`
	From           string        `json:"from" yaml:"from"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

type EmailGatewayConfig struct {
	URL            string        `json:"url" yaml:"url"`
	APIKey         string        `json:"api_key" yaml:"api_key"`
	From           string        `json:"from" yaml:"from"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

type MessagingConfigs struct {
	SMSGatewayConfig   SMSGatewayConfig   `json:"sms_gateway_config" yaml:"sms_gateway_config"`
	EmailGatewayConfig EmailGatewayConfig `json:"email_gateway_config" yaml:"email_gateway_config"`
}
