package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecureOptions configures security headers
type SecureOptions struct {
	SSLRedirect   bool
	SSLHost       string
	IsDevelopment bool
}

// Secure sets standard security headers and optionally redirects plain HTTP
// to HTTPS.
func Secure(opts SecureOptions) gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:        opts.SSLRedirect,
		SSLHost:            opts.SSLHost,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
		IsDevelopment:      opts.IsDevelopment,
	})

	return func(c *gin.Context) {
		// Process writes the redirect itself when it returns an error
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}

		// Avoid header rewrite if response is a redirection
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}

		c.Next()
	}
}
