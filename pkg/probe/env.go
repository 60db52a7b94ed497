package probe

import (
	"fmt"
	"io"
	"os"
)

// Environment variable names the manual probe requires.
const (
	EnvClientID       = "COGNITO_CLIENT_ID"
	EnvClientSecret   = "COGNITO_CLIENT_SECRET"
	EnvUserPoolDomain = "COGNITO_USER_POOL_DOMAIN"
	EnvGatewayURL     = "TAVILY_MCP_URL"
)

// Env holds the probe's required configuration.
type Env struct {
	ClientID       string
	ClientSecret   string
	UserPoolDomain string
	GatewayURL     string
}

// Missing returns the names of required variables that are unset, in a fixed
// order.
func (e Env) Missing() []string {
	var missing []string
	if e.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if e.ClientSecret == "" {
		missing = append(missing, EnvClientSecret)
	}
	if e.UserPoolDomain == "" {
		missing = append(missing, EnvUserPoolDomain)
	}
	if e.GatewayURL == "" {
		missing = append(missing, EnvGatewayURL)
	}
	return missing
}

// EnvFromOS reads the probe configuration from process environment variables.
func EnvFromOS() Env {
	return Env{
		ClientID:       os.Getenv(EnvClientID),
		ClientSecret:   os.Getenv(EnvClientSecret),
		UserPoolDomain: os.Getenv(EnvUserPoolDomain),
		GatewayURL:     os.Getenv(EnvGatewayURL),
	}
}

// ReportMissing writes a per-variable diagnostic for an incomplete
// environment. It is called before any network I/O.
func ReportMissing(w io.Writer, env Env) {
	fmt.Fprintln(w, "Missing required environment variables:")
	for _, entry := range []struct {
		name  string
		value string
	}{
		{EnvClientID, env.ClientID},
		{EnvClientSecret, env.ClientSecret},
		{EnvUserPoolDomain, env.UserPoolDomain},
		{EnvGatewayURL, env.GatewayURL},
	} {
		status := "ok"
		if entry.value == "" {
			status = "MISSING"
		}
		fmt.Fprintf(w, "  %-26s %s\n", entry.name+":", status)
	}
}
