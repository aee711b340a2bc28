package constants

import "time"

// 请求预算（每个客户端独立）
const (
	DefaultMaxRequests = 10
	DefaultWindow      = time.Second
	DefaultMaxWait     = 5 * time.Second

	HeavyMaxRequests = 2
	HeavyWindow      = time.Second
	HeavyMaxWait     = 10 * time.Second

	LightMaxRequests = 20
	LightWindow      = time.Second
	LightMaxWait     = 2 * time.Second
)

// Client names used in logs and metric labels.
const (
	ClientDefault = "default"
	ClientHeavy   = "heavy"
	ClientLight   = "light"
)

// MaxErrorMessageLength caps raw bodies echoed back as error messages.
const MaxErrorMessageLength = 200
