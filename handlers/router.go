package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	pathPaymentCallback    = "/payment-callback"
	pathPaymentCallbackAck = "/payment-callback/ack"
)

// RouterConfig configures NewRouter
type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	MetricsHandler http.Handler
}

// NewRouter wires middleware and routes
func NewRouter(rc RouterConfig, payments *PaymentHandler, notifications *NotificationHandler) *gin.Engine {
	r := gin.New()

	r.Use(RequestID())
	r.Use(otelgin.Middleware(rc.ServiceName))
	r.Use(HTTPMetrics())
	r.Use(RequestLogger())
	if len(rc.AllowedOrigins) > 0 {
		// the gateway posts server to server and must not be refused for its Origin
		r.Use(SkipPaths(cors.New(cors.Config{
			AllowOrigins: rc.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Content-Type"},
		}), pathPaymentCallback, pathPaymentCallbackAck))
	}
	r.Use(ErrorHandler())
	r.Use(Recovery())

	r.GET("/health", payments.HealthCheck)
	if rc.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(rc.MetricsHandler))
	}

	r.POST("/create-payment", payments.CreatePayment)
	r.POST(pathPaymentCallback, notifications.PaymentCallback)
	r.POST(pathPaymentCallbackAck, notifications.Acknowledge)
	r.POST("/success", notifications.Success)
	r.POST("/send-email", notifications.SendEmail)

	return r
}
